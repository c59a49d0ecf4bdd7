package tools

import "context"

type emitterKey struct{}

// ToolEventEmitter receives tool lifecycle events. The SSE chat stream binds
// an emitter per request so the client can show which tool is running; code
// paths without one degrade to no events.
type ToolEventEmitter interface {
	OnToolStart(name string)
	OnToolComplete(name string)
	OnToolError(name string)
}

// EmitterFromContext retrieves the emitter, or nil when none is bound.
func EmitterFromContext(ctx context.Context) ToolEventEmitter {
	emitter, _ := ctx.Value(emitterKey{}).(ToolEventEmitter)
	return emitter
}

// ContextWithEmitter binds an emitter to the context.
func ContextWithEmitter(ctx context.Context, emitter ToolEventEmitter) context.Context {
	return context.WithValue(ctx, emitterKey{}, emitter)
}
