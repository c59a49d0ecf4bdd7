// Package cmd contains the mahindrabot command line entry points. Following
// the pattern of standard Go CLI tools, all application logic lives here and
// main.go stays a minimal shim.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/vahanlabs/mahindrabot/internal/config"
	"github.com/vahanlabs/mahindrabot/internal/log"
)

// Execute is the main entry point for the mahindrabot CLI.
func Execute() error {
	command := ""
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	// Version and help work even when config or credentials are broken.
	switch command {
	case "version", "--version", "-v":
		printVersionInfo()
		return nil
	case "help", "--help", "-h", "":
		printHelp()
		return nil
	}

	logger := initLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.CheckAPIKey(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable not set")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Set your API key with:")
		fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=your-api-key")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Get a key at: https://ai.google.dev/")
		return err
	}

	switch command {
	case "chat":
		return runChat(cfg, logger)
	case "ask":
		return runAsk(cfg, logger, os.Args[2:])
	case "index":
		return runIndex(cfg, logger)
	case "serve":
		return runServe(cfg, logger)
	default:
		printHelp()
		return fmt.Errorf("unknown command %q", command)
	}
}

// initLogger builds the process logger. DEBUG (any value) enables debug
// level; MAHINDRABOT_LOG_JSON switches to JSON output for log shippers.
func initLogger() *slog.Logger {
	cfg := log.Config{Level: slog.LevelInfo}
	if os.Getenv("DEBUG") != "" {
		cfg.Level = slog.LevelDebug
	}
	if os.Getenv("MAHINDRABOT_LOG_JSON") != "" {
		cfg.JSON = true
	}
	return log.New(cfg)
}

func printHelp() {
	fmt.Println("Mahindra Bot - conversational assistant for car and bike buyers")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mahindrabot chat             Start an interactive chat session")
	fmt.Println("  mahindrabot ask <question>   Ask a single question and exit")
	fmt.Println("  mahindrabot index            Rebuild the FAQ embedding cache")
	fmt.Println("  mahindrabot serve            Start the HTTP API server")
	fmt.Println("  mahindrabot version          Show version information")
	fmt.Println("  mahindrabot help             Show this help")
	fmt.Println()
	fmt.Println("Interactive commands:")
	fmt.Println("  /clear                       Forget the conversation so far")
	fmt.Println("  /exit, /quit                 Leave the chat")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  GEMINI_API_KEY               Required: Gemini API key")
	fmt.Println("  DEBUG                        Optional: enable debug logging")
	fmt.Println("  MAHINDRABOT_ADDR             Optional: serve listen address")
	fmt.Println("  INTERNAL_SECRET_OTP          Optional: operator override OTP")
}
