package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/vahanlabs/mahindrabot/internal/booking"
	"github.com/vahanlabs/mahindrabot/internal/bot"
	"github.com/vahanlabs/mahindrabot/internal/catalog"
	"github.com/vahanlabs/mahindrabot/internal/config"
	"github.com/vahanlabs/mahindrabot/internal/evcharger"
	"github.com/vahanlabs/mahindrabot/internal/faq"
	"github.com/vahanlabs/mahindrabot/internal/intent"
	"github.com/vahanlabs/mahindrabot/internal/observability"
	"github.com/vahanlabs/mahindrabot/internal/skill"
	"github.com/vahanlabs/mahindrabot/internal/tools"
)

// otpJanitorInterval is how often expired pending bookings are swept.
const otpJanitorInterval = time.Minute

// app holds the wired application. Built once per process by setupApp.
type app struct {
	Genkit *genkit.Genkit
	Bot    *bot.Bot

	bookingLog    *booking.Log
	traceShutdown func(context.Context) error
	logger        *slog.Logger
}

// setupApp initializes every service and wires them into a ready Bot. ctx
// bounds the background goroutines (OTP janitor); cancel it on shutdown.
func setupApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{logger: logger}

	if cfg.Trace.Enabled {
		shutdown, err := observability.SetupTracing(ctx, observability.Config{
			Endpoint:    cfg.Trace.Endpoint,
			ServiceName: cfg.Trace.ServiceName,
			Environment: cfg.Trace.Environment,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("setting up tracing: %w", err)
		}
		a.traceShutdown = shutdown
	}

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)

	faqSvc, err := faq.New(ctx, faq.Config{
		CorpusPath: cfg.FAQPath,
		CacheDir:   cfg.CacheDir,
		Embedder:   embedder,
		Logger:     logger.With("component", "faq"),
		BatchSize:  cfg.EmbedBatchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing FAQ service: %w", err)
	}

	cars, err := catalog.New(catalog.Config{
		Dir:            cfg.CarDataDir,
		Kind:           catalog.KindCar,
		FuzzyThreshold: cfg.FuzzyThreshold,
		Logger:         logger.With("component", "catalog", "kind", "car"),
	})
	if err != nil {
		return nil, fmt.Errorf("initializing car catalog: %w", err)
	}

	// The bike catalog is optional: without data the bot simply runs
	// without bike tools.
	var bikes tools.VehicleCatalog
	if cfg.BikeDataDir != "" {
		bikeSvc, err := catalog.New(catalog.Config{
			Dir:            cfg.BikeDataDir,
			Kind:           catalog.KindBike,
			FuzzyThreshold: cfg.FuzzyThreshold,
			Logger:         logger.With("component", "catalog", "kind", "bike"),
		})
		if err != nil {
			logger.Warn("bike catalog unavailable, bike tools disabled", "error", err)
		} else {
			bikes = bikeSvc
		}
	}

	chargers, err := evcharger.New(evcharger.Config{
		StationsPath: cfg.EVChargerPath,
		PincodePath:  cfg.PincodePath,
		Logger:       logger.With("component", "evcharger"),
	})
	if err != nil {
		return nil, fmt.Errorf("initializing EV charger service: %w", err)
	}

	store, err := booking.NewStore(booking.StoreConfig{
		TTL:         time.Duration(cfg.OTPTTLMinutes) * time.Minute,
		OverrideOTP: cfg.OverrideOTP,
		Logger:      logger.With("component", "booking"),
	})
	if err != nil {
		return nil, fmt.Errorf("initializing booking store: %w", err)
	}
	go store.RunJanitor(ctx, otpJanitorInterval)

	bookingLog, err := booking.OpenLog(cfg.BookingLogPath)
	if err != nil {
		return nil, fmt.Errorf("opening booking log: %w", err)
	}
	a.bookingLog = bookingLog

	kit, err := tools.NewKit(tools.KitConfig{
		FAQ:      faqSvc,
		Cars:     cars,
		Bikes:    bikes,
		Chargers: chargers,
		Bookings: store,
		Recorder: bookingLog,
		Logger:   logger.With("component", "tools"),
	})
	if err != nil {
		return nil, fmt.Errorf("building toolkit: %w", err)
	}
	if err := kit.Register(g); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	classifier, err := intent.NewClassifier(g, cfg.FullModelName(), logger.With("component", "intent"))
	if err != nil {
		return nil, fmt.Errorf("building classifier: %w", err)
	}

	b, err := bot.New(bot.Config{
		Genkit:      g,
		Classifier:  classifier,
		Tools:       kit,
		Logger:      logger.With("component", "bot"),
		ModelName:   cfg.FullModelName(),
		MaxTurns:    cfg.MaxTurns,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("building bot: %w", err)
	}
	a.Bot = b

	logger.Info("application ready",
		"model", cfg.FullModelName(),
		"bike_catalog", bikes != nil,
		"skills", skill.Names(),
	)
	return a, nil
}

// Close flushes traces and releases resources.
func (a *app) Close() error {
	if a.traceShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.traceShutdown(ctx); err != nil {
			a.logger.Warn("flushing traces", "error", err)
		}
	}
	if a.bookingLog != nil {
		if err := a.bookingLog.Close(); err != nil {
			return fmt.Errorf("closing booking log: %w", err)
		}
	}
	return nil
}
