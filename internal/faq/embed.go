package faq

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
)

// embedTexts generates one embedding per text using the configured embedder,
// batching requests to bound payload size. The returned slice is aligned with
// the input: embeddings[i] corresponds to texts[i].
func embedTexts(ctx context.Context, embedder ai.Embedder, texts []string, batchSize int) ([][]float32, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		batch := texts[start:end]

		docs := make([]*ai.Document, len(batch))
		for i, t := range batch {
			docs[i] = ai.DocumentFromText(t, nil)
		}

		resp, err := embedder.Embed(ctx, &ai.EmbedRequest{Input: docs})
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d-%d: %w", start, end, err)
		}
		if len(resp.Embeddings) != len(batch) {
			return nil, fmt.Errorf("embedding batch %d-%d: got %d embeddings for %d inputs",
				start, end, len(resp.Embeddings), len(batch))
		}

		for _, e := range resp.Embeddings {
			if len(e.Embedding) == 0 {
				return nil, fmt.Errorf("embedding batch %d-%d: empty embedding returned", start, end)
			}
			embeddings = append(embeddings, e.Embedding)
		}
	}
	return embeddings, nil
}

// embedQuery embeds a single query string.
func embedQuery(ctx context.Context, embedder ai.Embedder, query string) ([]float32, error) {
	vecs, err := embedTexts(ctx, embedder, []string{query}, 1)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}
