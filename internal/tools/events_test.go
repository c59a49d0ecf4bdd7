package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/firebase/genkit/go/ai"
)

// recordingEmitter collects lifecycle events for assertions.
type recordingEmitter struct {
	started   []string
	completed []string
	failed    []string
}

func (r *recordingEmitter) OnToolStart(name string)    { r.started = append(r.started, name) }
func (r *recordingEmitter) OnToolComplete(name string) { r.completed = append(r.completed, name) }
func (r *recordingEmitter) OnToolError(name string)    { r.failed = append(r.failed, name) }

var _ ToolEventEmitter = (*recordingEmitter)(nil)

func TestWithEventsEmitsStartAndComplete(t *testing.T) {
	emitter := &recordingEmitter{}
	toolCtx := &ai.ToolContext{Context: ContextWithEmitter(context.Background(), emitter)}

	wrapped := WithEvents("search_faq", func(_ *ai.ToolContext, input string) (Result, error) {
		return Result{Status: StatusSuccess, Data: input}, nil
	})

	result, err := wrapped(toolCtx, "warranty")
	if err != nil {
		t.Fatalf("wrapped handler: %v", err)
	}
	if result.Status != StatusSuccess {
		t.Errorf("status = %v, want %v", result.Status, StatusSuccess)
	}
	if len(emitter.started) != 1 || emitter.started[0] != "search_faq" {
		t.Errorf("started = %v, want [search_faq]", emitter.started)
	}
	if len(emitter.completed) != 1 || emitter.completed[0] != "search_faq" {
		t.Errorf("completed = %v, want [search_faq]", emitter.completed)
	}
	if len(emitter.failed) != 0 {
		t.Errorf("failed = %v, want none", emitter.failed)
	}
}

func TestWithEventsEmitsErrorOnFailure(t *testing.T) {
	emitter := &recordingEmitter{}
	toolCtx := &ai.ToolContext{Context: ContextWithEmitter(context.Background(), emitter)}

	handlerErr := errors.New("backend down")
	wrapped := WithEvents("book_ride", func(_ *ai.ToolContext, _ string) (Result, error) {
		return Result{}, handlerErr
	})

	_, err := wrapped(toolCtx, "input")
	if !errors.Is(err, handlerErr) {
		t.Fatalf("error = %v, want %v", err, handlerErr)
	}
	if len(emitter.started) != 1 {
		t.Errorf("started = %v, want one event", emitter.started)
	}
	if len(emitter.completed) != 0 {
		t.Errorf("completed = %v, want none", emitter.completed)
	}
	if len(emitter.failed) != 1 || emitter.failed[0] != "book_ride" {
		t.Errorf("failed = %v, want [book_ride]", emitter.failed)
	}
}

func TestWithEventsWithoutEmitter(t *testing.T) {
	toolCtx := &ai.ToolContext{Context: context.Background()}

	calls := 0
	wrapped := WithEvents("list_cars", func(_ *ai.ToolContext, input int) (int, error) {
		calls++
		return input * 2, nil
	})

	got, err := wrapped(toolCtx, 21)
	if err != nil {
		t.Fatalf("wrapped handler: %v", err)
	}
	if got != 42 || calls != 1 {
		t.Errorf("got %d after %d calls, want 42 after 1", got, calls)
	}
}

func TestEmitterContextRoundTrip(t *testing.T) {
	if got := EmitterFromContext(context.Background()); got != nil {
		t.Errorf("empty context returned emitter %v, want nil", got)
	}

	emitter := &recordingEmitter{}
	ctx := ContextWithEmitter(context.Background(), emitter)
	retrieved := EmitterFromContext(ctx)
	if retrieved == nil {
		t.Fatal("bound emitter not retrieved")
	}
	retrieved.OnToolStart("confirm_ride")
	if len(emitter.started) != 1 || emitter.started[0] != "confirm_ride" {
		t.Errorf("started = %v, want [confirm_ride]", emitter.started)
	}
}
