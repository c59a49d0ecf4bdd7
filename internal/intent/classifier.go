package intent

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

const classifierSystemPrompt = `You are an intent classifier for an automotive assistant.
Classify the user's latest message into exactly one of these intents:

- greeting: salutations and small talk with no actionable request
- general_qna: questions about policies, warranty, service, finance, RTO processes
- car_recommendation: asking to find, list or suggest cars
- car_comparison: asking to compare two or more cars
- book_ride: booking or confirming a test drive
- find_ev_charger_location: locating EV charging stations
- bike_recommendation: asking to find, list or suggest bikes
- bike_comparison: asking to compare two or more bikes

Consider the conversation history for context. Respond with the intent name
and your confidence between 0 and 1.`

// Classifier asks the model which intent a message carries.
type Classifier struct {
	g      *genkit.Genkit
	model  string
	logger *slog.Logger
}

// NewClassifier wires a classifier to an initialized genkit instance and a
// fully qualified model name (for example "googleai/gemini-2.5-flash").
func NewClassifier(g *genkit.Genkit, model string, logger *slog.Logger) (*Classifier, error) {
	if g == nil {
		return nil, errors.New("genkit instance is required")
	}
	if model == "" {
		return nil, errors.New("model name is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Classifier{g: g, model: model, logger: logger}, nil
}

// Classify returns the intent of the latest user message. Classification is
// best-effort routing, not correctness: any model failure degrades to
// general_qna with zero confidence instead of failing the turn.
func (c *Classifier) Classify(ctx context.Context, message string, history []*ai.Message) Classification {
	fallback := Classification{Intent: GeneralQnA, Confidence: 0}

	if strings.TrimSpace(message) == "" {
		return fallback
	}

	opts := []ai.GenerateOption{
		ai.WithModelName(c.model),
		ai.WithSystem(classifierSystemPrompt),
		ai.WithOutputType(Classification{}),
	}
	if len(history) > 0 {
		opts = append(opts, ai.WithMessages(history...))
	}
	opts = append(opts, ai.WithPrompt(message))

	response, err := genkit.Generate(ctx, c.g, opts...)
	if err != nil {
		c.logger.Warn("intent classification failed", "error", err)
		return fallback
	}

	var out Classification
	if err := response.Output(&out); err != nil {
		c.logger.Warn("intent classification returned malformed output", "error", err)
		return fallback
	}

	out = out.Normalize()
	c.logger.Debug("intent classified",
		"intent", out.Intent,
		"confidence", out.Confidence,
	)
	return out
}
