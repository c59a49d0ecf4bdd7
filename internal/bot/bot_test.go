package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/vahanlabs/mahindrabot/internal/intent"
)

type fakeClassifier struct {
	result     intent.Classification
	gotMessage string
	gotHistory int
}

func (f *fakeClassifier) Classify(_ context.Context, message string, history []*ai.Message) intent.Classification {
	f.gotMessage = message
	f.gotHistory = len(history)
	if f.result.Intent == "" {
		return intent.Classification{Intent: intent.GeneralQnA}
	}
	return f.result
}

type fakeResolver struct {
	gotNames []string
}

func (f *fakeResolver) Refs(_ *genkit.Genkit, names []string) []ai.ToolRef {
	f.gotNames = names
	return nil
}

func textResponse(text string) *ai.ModelResponse {
	return &ai.ModelResponse{
		Message: ai.NewModelMessage(ai.NewTextPart(text)),
	}
}

func newTestBot(t *testing.T, classifier IntentClassifier) *Bot {
	t.Helper()
	b, err := New(Config{
		Genkit:     genkit.Init(context.Background()),
		Classifier: classifier,
		Tools:      &fakeResolver{},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		ModelName:  "googleai/gemini-2.5-flash",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b
}

func TestNew_RequiredConfig(t *testing.T) {
	t.Parallel()

	g := genkit.Init(context.Background())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	valid := Config{
		Genkit:     g,
		Classifier: &fakeClassifier{},
		Tools:      &fakeResolver{},
		Logger:     logger,
		ModelName:  "googleai/gemini-2.5-flash",
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing genkit", func(c *Config) { c.Genkit = nil }},
		{"missing classifier", func(c *Config) { c.Classifier = nil }},
		{"missing tools", func(c *Config) { c.Tools = nil }},
		{"missing logger", func(c *Config) { c.Logger = nil }},
		{"missing model", func(c *Config) { c.ModelName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Error("New() expected error")
			}
		})
	}

	if _, err := New(valid); err != nil {
		t.Errorf("New() with valid config error = %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, &fakeClassifier{})

	if b.maxTurns != 5 {
		t.Errorf("maxTurns = %d, want 5", b.maxTurns)
	}
	if b.retryConfig.MaxRetries != DefaultRetryConfig().MaxRetries {
		t.Errorf("retryConfig = %+v, want defaults", b.retryConfig)
	}
	if b.rateLimiter == nil {
		t.Error("rateLimiter should default to non-nil")
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, &fakeClassifier{})

	if _, err := b.Chat(context.Background(), nil, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("Chat() error = %v, want ErrEmptyMessage", err)
	}
}

func TestChat_RoutesIntentToSkill(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{
		result: intent.Classification{Intent: intent.CarComparison, Confidence: 0.9},
	}
	resolver := &fakeResolver{}
	b := newTestBot(t, classifier)
	b.tools = resolver
	b.generate = func(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error) {
		return textResponse("The XUV700 has a larger engine."), nil
	}

	history := []*ai.Message{ai.NewUserMessage(ai.NewTextPart("hi"))}
	resp, err := b.Chat(context.Background(), history, "compare scorpio_n and xuv700")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if resp.Skill != "car_comparison" {
		t.Errorf("Skill = %q, want %q", resp.Skill, "car_comparison")
	}
	if resp.Intent.Intent != intent.CarComparison {
		t.Errorf("Intent = %q, want %q", resp.Intent.Intent, intent.CarComparison)
	}
	if resp.FinalText != "The XUV700 has a larger engine." {
		t.Errorf("FinalText = %q", resp.FinalText)
	}
	if classifier.gotMessage != "compare scorpio_n and xuv700" {
		t.Errorf("classifier saw message %q", classifier.gotMessage)
	}
	if classifier.gotHistory != 1 {
		t.Errorf("classifier saw %d history messages, want 1", classifier.gotHistory)
	}

	wantTools := []string{"search_car", "get_car_details", "get_car_comparison"}
	if len(resolver.gotNames) != len(wantTools) {
		t.Fatalf("resolver got %v, want %v", resolver.gotNames, wantTools)
	}
	for i, name := range wantTools {
		if resolver.gotNames[i] != name {
			t.Errorf("resolver.gotNames[%d] = %q, want %q", i, resolver.gotNames[i], name)
		}
	}
}

func TestChat_EmptyResponseFallback(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, &fakeClassifier{})
	b.generate = func(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error) {
		return textResponse(""), nil
	}

	resp, err := b.Chat(context.Background(), nil, "hello")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.FinalText != fallbackResponseMessage {
		t.Errorf("FinalText = %q, want fallback message", resp.FinalText)
	}
}

func TestChat_GenerateError(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, &fakeClassifier{})
	b.generate = func(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error) {
		return nil, errors.New("invalid API key")
	}

	if _, err := b.Chat(context.Background(), nil, "hello"); err == nil {
		t.Fatal("Chat() expected error")
	}
}

func TestChat_DoesNotMutateHistory(t *testing.T) {
	t.Parallel()

	b := newTestBot(t, &fakeClassifier{})
	b.generate = func(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error) {
		return textResponse("ok"), nil
	}

	history := []*ai.Message{
		ai.NewUserMessage(ai.NewTextPart("first")),
		ai.NewModelMessage(ai.NewTextPart("second")),
	}
	if _, err := b.Chat(context.Background(), history, "third"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Content[0].Text != "first" || history[1].Content[0].Text != "second" {
		t.Error("history contents changed")
	}
}

func TestDeepCopyMessages(t *testing.T) {
	t.Parallel()

	if deepCopyMessages(nil) != nil {
		t.Error("deepCopyMessages(nil) should be nil")
	}

	orig := []*ai.Message{
		ai.NewUserMessage(ai.NewTextPart("question")),
	}
	copied := deepCopyMessages(orig)

	if len(copied) != 1 {
		t.Fatalf("copied length = %d, want 1", len(copied))
	}
	if copied[0] == orig[0] {
		t.Error("message pointer shared with original")
	}
	if copied[0].Content[0] == orig[0].Content[0] {
		t.Error("part pointer shared with original")
	}
	if copied[0].Content[0].Text != "question" {
		t.Errorf("copied text = %q", copied[0].Content[0].Text)
	}
}

func TestTurn(t *testing.T) {
	t.Parallel()

	msgs := Turn("what is the price", "it costs 13 lakh")

	if len(msgs) != 2 {
		t.Fatalf("Turn() returned %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != ai.RoleUser || msgs[0].Content[0].Text != "what is the price" {
		t.Errorf("user message = %+v", msgs[0])
	}
	if msgs[1].Role != ai.RoleModel || msgs[1].Content[0].Text != "it costs 13 lakh" {
		t.Errorf("model message = %+v", msgs[1])
	}
}
