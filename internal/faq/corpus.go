package faq

import (
	"encoding/json"
	"fmt"
	"os"
)

// corpusEntry is the on-disk shape of a FAQ corpus record.
// Missing fields default to empty strings, matching the consolidated corpus
// files which omit category/subcategory for some sources.
type corpusEntry struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// LoadCorpus reads a FAQ corpus from a JSON array file and assigns sequential
// string IDs. The ID is positional: cache validation relies on corpus order
// being stable between runs.
func LoadCorpus(path string) ([]FAQ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", path, err)
	}

	var entries []corpusEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", path, err)
	}

	faqs := make([]FAQ, len(entries))
	for i, e := range entries {
		faqs[i] = FAQ{
			ID:          fmt.Sprintf("%d", i),
			Question:    e.Question,
			Answer:      e.Answer,
			Category:    e.Category,
			Subcategory: e.Subcategory,
		}
	}
	return faqs, nil
}
