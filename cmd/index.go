package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/vahanlabs/mahindrabot/internal/config"
	"github.com/vahanlabs/mahindrabot/internal/faq"
)

// runIndex forces a rebuild of the FAQ embedding cache by dropping the
// existing cache file and letting the service regenerate it.
func runIndex(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cachePath := filepath.Join(cfg.CacheDir, faq.CacheFileName)
	if err := os.Remove(cachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale cache: %w", err)
	}

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)

	svc, err := faq.New(ctx, faq.Config{
		CorpusPath: cfg.FAQPath,
		CacheDir:   cfg.CacheDir,
		Embedder:   embedder,
		Logger:     logger.With("component", "faq"),
		BatchSize:  cfg.EmbedBatchSize,
	})
	if err != nil {
		return fmt.Errorf("rebuilding FAQ embeddings: %w", err)
	}

	fmt.Printf("Indexed %d FAQ entries into %s\n", svc.Len(), cachePath)
	return nil
}
