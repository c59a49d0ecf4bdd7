// Package faq implements the semantic FAQ search service.
//
// The service holds dual embeddings for the corpus: one vector per question
// and one per answer. A query is embedded once and ranked by cosine
// similarity against both matrices; the per-entry score is the higher of the
// two fields. Embeddings are cached on disk as JSON and validated against the
// current corpus on startup, so the (slow, billable) embedding pass runs only
// when the corpus changes.
package faq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/firebase/genkit/go/ai"
	"golang.org/x/sync/errgroup"
)

const defaultBatchSize = 50

// Config contains required parameters for the FAQ service.
type Config struct {
	CorpusPath string      // JSON array of {question, answer, category, subcategory}
	CacheDir   string      // directory for the embedding cache
	Embedder   ai.Embedder // embedding backend
	Logger     *slog.Logger
	BatchSize  int // texts per embedding request (0 = default 50)
}

func (cfg Config) validate() error {
	if cfg.CorpusPath == "" {
		return errors.New("corpus path is required")
	}
	if cfg.CacheDir == "" {
		return errors.New("cache directory is required")
	}
	if cfg.Embedder == nil {
		return errors.New("embedder is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Service answers free-text queries against the FAQ corpus.
// After construction the service is read-only and safe for concurrent use.
type Service struct {
	faqs      []FAQ
	questions [][]float32 // unit vectors, aligned with faqs
	answers   [][]float32 // unit vectors, aligned with faqs
	embedder  ai.Embedder
	logger    *slog.Logger
	batchSize int
}

// New loads the corpus and prepares embeddings, from cache when valid or by
// generating and caching them otherwise.
func New(ctx context.Context, cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	faqs, err := LoadCorpus(cfg.CorpusPath)
	if err != nil {
		return nil, err
	}

	s := &Service{
		faqs:      faqs,
		embedder:  cfg.Embedder,
		logger:    cfg.Logger,
		batchSize: cfg.BatchSize,
	}
	if s.batchSize <= 0 {
		s.batchSize = defaultBatchSize
	}

	cachePath := filepath.Join(cfg.CacheDir, CacheFileName)

	cache, err := loadCache(cachePath, len(faqs))
	switch {
	case err == nil:
		s.logger.Info("loaded FAQ embeddings from cache", "entries", len(faqs), "path", cachePath)
	case errors.Is(err, ErrCacheInvalid):
		s.logger.Info("rebuilding FAQ embeddings", "reason", err, "entries", len(faqs))
		cache, err = s.buildCache(ctx)
		if err != nil {
			return nil, err
		}
		if err := saveCache(cachePath, cache); err != nil {
			// A failed cache write costs a rebuild next start, not correctness.
			s.logger.Warn("saving FAQ embedding cache", "error", err)
		}
	default:
		return nil, err
	}

	s.questions = make([][]float32, len(cache.Questions))
	s.answers = make([][]float32, len(cache.Answers))
	for i := range cache.Questions {
		s.questions[i] = normalize(cache.Questions[i])
		s.answers[i] = normalize(cache.Answers[i])
	}

	return s, nil
}

// buildCache embeds every question and answer. The two fields are embedded
// concurrently; each goroutine batches its own requests.
func (s *Service) buildCache(ctx context.Context) (*cacheFile, error) {
	questions := make([]string, len(s.faqs))
	answers := make([]string, len(s.faqs))
	for i, f := range s.faqs {
		questions[i] = f.Question
		answers[i] = f.Answer
	}

	var qVecs, aVecs [][]float32
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vecs, err := embedTexts(gctx, s.embedder, questions, s.batchSize)
		if err != nil {
			return fmt.Errorf("question embeddings: %w", err)
		}
		qVecs = vecs
		return nil
	})
	g.Go(func() error {
		vecs, err := embedTexts(gctx, s.embedder, answers, s.batchSize)
		if err != nil {
			return fmt.Errorf("answer embeddings: %w", err)
		}
		aVecs = vecs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &cacheFile{Questions: qVecs, Answers: aVecs, Metadata: s.faqs}, nil
}

// Len returns the number of FAQ entries loaded.
func (s *Service) Len() int {
	return len(s.faqs)
}

// Search returns up to limit FAQs ranked by cosine similarity to the query.
// Each entry is scored against both its question and answer embedding and
// keeps the higher of the two. Results are sorted by score descending.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 || len(s.faqs) == 0 {
		return nil, nil
	}

	qv, err := embedQuery(ctx, s.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	qv = normalize(qv)

	results := make([]Result, len(s.faqs))
	for i, f := range s.faqs {
		score := dot(qv, s.questions[i])
		if as := dot(qv, s.answers[i]); as > score {
			score = as
		}
		results[i] = Result{
			ID:          f.ID,
			Question:    f.Question,
			Answer:      f.Answer,
			Score:       score,
			Category:    f.Category,
			Subcategory: f.Subcategory,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit < len(results) {
		results = results[:limit]
	}

	s.logger.Debug("faq search",
		"query_length", len(query),
		"results", len(results),
		"top_score", results[0].Score,
	)
	return results, nil
}
