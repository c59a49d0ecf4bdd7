package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/firebase/genkit/go/ai"

	"github.com/vahanlabs/mahindrabot/internal/bot"
	"github.com/vahanlabs/mahindrabot/internal/config"
)

// runChat starts an interactive terminal session. Chunks stream to stdout as
// the model produces them.
func runChat(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := setupApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	fmt.Println("Mahindra Bot - ask about cars, bikes, test drives, FAQs and EV chargers.")
	fmt.Println("Type /exit to quit, /clear to start over.")
	fmt.Println()

	var history []*ai.Message
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/clear":
			history = nil
			fmt.Println("(conversation cleared)")
			continue
		}

		fmt.Print("bot> ")
		streamed := false
		resp, err := a.Bot.ChatStream(ctx, history, input,
			func(_ context.Context, chunk *ai.ModelResponseChunk) error {
				text := chunk.Text()
				if text != "" {
					streamed = true
					fmt.Print(text)
				}
				return nil
			})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Println()
				return nil
			}
			fmt.Printf("(error: %v)\n", err)
			continue
		}

		// A response assembled purely from tool turns may never stream.
		if !streamed {
			fmt.Print(resp.FinalText)
		}
		fmt.Println()

		history = append(history, bot.Turn(input, resp.FinalText)...)
	}
}
