package faq

// FAQ is a single corpus entry. IDs are assigned sequentially at load time
// ("0", "1", ...) and identify the entry in cache metadata and search results.
type FAQ struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// Result is a single search hit with its merged similarity score.
type Result struct {
	ID          string  `json:"id"`
	Question    string  `json:"question"`
	Answer      string  `json:"answer"`
	Score       float64 `json:"score"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
}
