package tools

import (
	"github.com/firebase/genkit/go/ai"
)

const (
	defaultFAQLimit = 5
	maxFAQLimit     = 15

	// minRelevantScore is the floor below which the best hit is treated as
	// noise rather than an answer.
	minRelevantScore = 0.5

	noFAQMessage = "I couldn't find any relevant information in our FAQ database. " +
		"Please contact customer support for assistance."
)

// SearchFAQ runs a semantic search over the FAQ corpus. When nothing clears
// the relevance floor the tool succeeds with found=false and a message the
// model should relay, instead of fabricating an answer.
func (k *Kit) SearchFAQ(ctx *ai.ToolContext, input SearchFAQInput) (Result, error) {
	if input.Query == "" {
		return failure(ErrCodeValidation, "query is required"), nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultFAQLimit
	}
	if limit > maxFAQLimit {
		limit = maxFAQLimit
	}

	results, err := k.faq.Search(ctx.Context, input.Query, limit)
	if err != nil {
		k.logger.Error("faq search failed", "error", err)
		return failure(ErrCodeUnavailable, "FAQ search is temporarily unavailable"), nil
	}

	if len(results) == 0 || results[0].Score < minRelevantScore {
		return success(map[string]any{
			"found":   false,
			"message": noFAQMessage,
		}), nil
	}

	return success(map[string]any{
		"found":   true,
		"count":   len(results),
		"results": results,
	}), nil
}
