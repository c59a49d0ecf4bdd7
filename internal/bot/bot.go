// Package bot orchestrates one conversational turn: classify the message's
// intent, pick the matching skill, and run the model with that skill's
// instruction and tool set.
//
// The bot is stateless. Callers own the conversation history and pass it in
// on every turn; the returned response is theirs to append.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/vahanlabs/mahindrabot/internal/intent"
	"github.com/vahanlabs/mahindrabot/internal/skill"
)

// fallbackResponseMessage is returned when the model produces an empty
// response with no tool requests.
const fallbackResponseMessage = "I apologize, but I couldn't generate a response. Please try rephrasing your question."

// ErrEmptyMessage indicates the user message was empty or whitespace.
var ErrEmptyMessage = errors.New("message is empty")

// IntentClassifier routes a message to an intent. Classification never
// fails; implementations degrade to a low-confidence default instead.
type IntentClassifier interface {
	Classify(ctx context.Context, message string, history []*ai.Message) intent.Classification
}

// ToolResolver maps skill tool names to registered tool references.
type ToolResolver interface {
	Refs(g *genkit.Genkit, names []string) []ai.ToolRef
}

// StreamCallback is called for each chunk of a streaming response.
// Return an error to abort the stream.
type StreamCallback func(ctx context.Context, chunk *ai.ModelResponseChunk) error

// Response is the result of one conversational turn.
type Response struct {
	FinalText    string
	Intent       intent.Classification
	Skill        string
	ToolRequests []*ai.ToolRequest
}

// generateFunc matches genkit.Generate with the instance bound; swapped out
// in tests.
type generateFunc func(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error)

// Config contains the parameters for a Bot.
type Config struct {
	Genkit     *genkit.Genkit
	Classifier IntentClassifier
	Tools      ToolResolver
	Logger     *slog.Logger

	// ModelName is the provider-qualified model name
	// (for example "googleai/gemini-2.5-flash").
	ModelName string
	// MaxTurns caps the agentic tool-calling loop. Zero uses the default.
	MaxTurns int
	// Temperature is passed to the model when positive.
	Temperature float32
	// MaxTokens caps the response length when positive.
	MaxTokens int

	// RetryConfig tunes retries on transient model errors
	// (zero-value uses defaults).
	RetryConfig RetryConfig
	// RateLimiter throttles model calls across turns (nil = use default).
	RateLimiter *rate.Limiter
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Classifier == nil {
		return errors.New("classifier is required")
	}
	if cfg.Tools == nil {
		return errors.New("tool resolver is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Bot runs conversational turns. All configuration is captured immutably at
// construction, so a single Bot is safe for concurrent use.
type Bot struct {
	g          *genkit.Genkit
	classifier IntentClassifier
	tools      ToolResolver
	logger     *slog.Logger

	modelName string
	maxTurns  int
	genConfig *genai.GenerateContentConfig

	retryConfig RetryConfig
	rateLimiter *rate.Limiter

	generate generateFunc
}

// New creates a Bot from cfg.
func New(cfg Config) (*Bot, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}

	retryConfig := cfg.RetryConfig
	if retryConfig.MaxRetries == 0 {
		retryConfig = DefaultRetryConfig()
	}

	// Default: 10 requests/sec sustained, burst of 30.
	rl := cfg.RateLimiter
	if rl == nil {
		rl = rate.NewLimiter(10, 30)
	}

	b := &Bot{
		g:           cfg.Genkit,
		classifier:  cfg.Classifier,
		tools:       cfg.Tools,
		logger:      cfg.Logger,
		modelName:   cfg.ModelName,
		maxTurns:    maxTurns,
		retryConfig: retryConfig,
		rateLimiter: rl,
	}
	if cfg.Temperature > 0 || cfg.MaxTokens > 0 {
		gc := &genai.GenerateContentConfig{}
		if cfg.Temperature > 0 {
			gc.Temperature = genai.Ptr(cfg.Temperature)
		}
		if cfg.MaxTokens > 0 {
			gc.MaxOutputTokens = int32(cfg.MaxTokens)
		}
		b.genConfig = gc
	}
	b.generate = func(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error) {
		return genkit.Generate(ctx, b.g, opts...)
	}

	b.logger.Info("bot initialized",
		"model", b.modelName,
		"maxTurns", b.maxTurns,
	)
	return b, nil
}

// Chat runs one turn without streaming.
func (b *Bot) Chat(ctx context.Context, history []*ai.Message, message string) (*Response, error) {
	return b.ChatStream(ctx, history, message, nil)
}

// ChatStream runs one turn with optional streaming output. If callback is
// non-nil it receives each chunk as it is generated; the final response is
// returned either way. The history slice is not modified.
func (b *Bot) ChatStream(ctx context.Context, history []*ai.Message, message string, callback StreamCallback) (*Response, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	cls := b.classifier.Classify(ctx, message, history)
	sk := skill.For(cls.Intent)
	refs := b.tools.Refs(b.g, sk.RelevantTools)

	b.logger.Debug("turn routed",
		"intent", cls.Intent,
		"confidence", cls.Confidence,
		"skill", sk.Name,
		"toolCount", len(refs),
	)

	// Genkit renders messages in place, so shared history must be copied
	// before handing it over.
	messages := deepCopyMessages(history)

	opts := []ai.GenerateOption{
		ai.WithModelName(b.modelName),
		ai.WithSystem(sk.Instruction),
		ai.WithMaxTurns(b.maxTurns),
	}
	if b.genConfig != nil {
		opts = append(opts, ai.WithConfig(b.genConfig))
	}
	if len(messages) > 0 {
		opts = append(opts, ai.WithMessages(messages...))
	}
	if len(refs) > 0 {
		opts = append(opts, ai.WithTools(refs...))
	}
	if callback != nil {
		opts = append(opts, ai.WithStreaming(ai.ModelStreamCallback(callback)))
	}
	opts = append(opts, ai.WithPrompt(message))

	resp, err := b.generateWithRetry(ctx, opts)
	if err != nil {
		return nil, err
	}

	responseText := resp.Text()

	// Empty text with tool requests pending is valid agentic behavior;
	// only a fully empty response gets the fallback.
	if strings.TrimSpace(responseText) == "" && len(resp.ToolRequests()) == 0 {
		b.logger.Warn("model returned empty response with no tool requests",
			"skill", sk.Name)
		responseText = fallbackResponseMessage
	}

	return &Response{
		FinalText:    responseText,
		Intent:       cls,
		Skill:        sk.Name,
		ToolRequests: resp.ToolRequests(),
	}, nil
}

// Turn builds the two messages a caller appends to its history after a
// completed turn.
func Turn(userMessage, responseText string) []*ai.Message {
	return []*ai.Message{
		ai.NewUserMessage(ai.NewTextPart(userMessage)),
		ai.NewModelMessage(ai.NewTextPart(responseText)),
	}
}

// deepCopyMessages creates independent copies of Message and Part structs.
// Genkit's renderMessages() modifies msg.Content in place, which races when
// concurrent turns share history objects.
func deepCopyMessages(msgs []*ai.Message) []*ai.Message {
	if msgs == nil {
		return nil
	}
	copied := make([]*ai.Message, len(msgs))
	for i, msg := range msgs {
		parts := make([]*ai.Part, len(msg.Content))
		for j, part := range msg.Content {
			parts[j] = deepCopyPart(part)
		}
		copied[i] = &ai.Message{
			Role:     msg.Role,
			Content:  parts,
			Metadata: shallowCopyMap(msg.Metadata),
		}
	}
	return copied
}

// deepCopyPart copies one part. ToolRequest.Input and ToolResponse.Output
// are type any and copied by reference; Genkit only mutates the Content
// slice, not tool data.
func deepCopyPart(p *ai.Part) *ai.Part {
	if p == nil {
		return nil
	}
	cp := &ai.Part{
		Kind:        p.Kind,
		ContentType: p.ContentType,
		Text:        p.Text,
		Custom:      shallowCopyMap(p.Custom),
		Metadata:    shallowCopyMap(p.Metadata),
	}
	if p.ToolRequest != nil {
		cp.ToolRequest = &ai.ToolRequest{
			Input: p.ToolRequest.Input,
			Name:  p.ToolRequest.Name,
			Ref:   p.ToolRequest.Ref,
		}
	}
	if p.ToolResponse != nil {
		cp.ToolResponse = &ai.ToolResponse{
			Name:   p.ToolResponse.Name,
			Output: p.ToolResponse.Output,
			Ref:    p.ToolResponse.Ref,
		}
	}
	if p.Resource != nil {
		cp.Resource = &ai.ResourcePart{Uri: p.Resource.Uri}
	}
	return cp
}

func shallowCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
