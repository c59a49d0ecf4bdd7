package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"

	"github.com/vahanlabs/mahindrabot/internal/bot"
	"github.com/vahanlabs/mahindrabot/internal/tools"
)

// maxChatBodyBytes limits chat request bodies.
const maxChatBodyBytes = 1 << 20

// ChatRunner runs one conversational turn. Satisfied by *bot.Bot.
type ChatRunner interface {
	Chat(ctx context.Context, history []*ai.Message, message string) (*bot.Response, error)
	ChatStream(ctx context.Context, history []*ai.Message, message string, callback bot.StreamCallback) (*bot.Response, error)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID  string  `json:"session_id"`
	Reply      string  `json:"reply"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Skill      string  `json:"skill"`
}

type chatHandler struct {
	bot      ChatRunner
	sessions *sessionStore
	logger   *slog.Logger
}

// resolveSession parses the optional session ID, creating a new session when
// none is given. A session ID that is malformed or unknown is an error: the
// client should start over rather than silently lose its history.
func (h *chatHandler) resolveSession(raw string) (uuid.UUID, []*ai.Message, error) {
	if raw == "" {
		return h.sessions.create(), nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("malformed session ID: %w", err)
	}
	history, err := h.sessions.history(id)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return id, history, nil
}

func (h *chatHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body", h.logger)
		return req, false
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "missing_message", "message is required", h.logger)
		return req, false
	}
	return req, true
}

// send handles POST /api/chat.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	id, history, err := h.resolveSession(req.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session_not_found", "unknown or expired session", h.logger)
		return
	}

	resp, err := h.bot.Chat(r.Context(), history, req.Message)
	if err != nil {
		if errors.Is(err, bot.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, "missing_message", "message is required", h.logger)
			return
		}
		h.logger.Error("chat turn failed", "error", err, "session_id", id)
		writeError(w, http.StatusBadGateway, "generation_failed", "could not generate a response", h.logger)
		return
	}

	if err := h.sessions.append(id, bot.Turn(req.Message, resp.FinalText)); err != nil {
		h.logger.Warn("appending to session history", "error", err, "session_id", id)
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID:  id.String(),
		Reply:      resp.FinalText,
		Intent:     string(resp.Intent.Intent),
		Confidence: resp.Intent.Confidence,
		Skill:      resp.Skill,
	}, h.logger)
}

// SSE event types for chat streaming.
const (
	eventChunk = "chunk"
	eventDone  = "done"
	eventError = "error"
	eventTool  = "tool"
)

type chunkPayload struct {
	Text string `json:"text"`
}

type toolEventPayload struct {
	Tool   string `json:"tool"`
	Status string `json:"status"`
}

// sseToolEmitter forwards tool lifecycle events onto the SSE stream so the
// client can show which tool is running. Tool callbacks and streaming chunks
// interleave, so writes share a mutex with the chunk callback.
type sseToolEmitter struct {
	mu      *sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	logger  *slog.Logger
}

func (e *sseToolEmitter) emit(name, status string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := writeEvent(e.w, e.flusher, eventTool, toolEventPayload{Tool: name, Status: status}); err != nil {
		e.logger.Warn("writing tool event", "tool", name, "error", err)
	}
}

func (e *sseToolEmitter) OnToolStart(name string)    { e.emit(name, "started") }
func (e *sseToolEmitter) OnToolComplete(name string) { e.emit(name, "completed") }
func (e *sseToolEmitter) OnToolError(name string)    { e.emit(name, "failed") }

// stream handles POST /api/chat/stream, sending the response as SSE events:
// "tool" events as the model calls tools, zero or more "chunk" events, and
// one final "done" event carrying the full chatResponse.
func (h *chatHandler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming not supported", h.logger)
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	id, history, err := h.resolveSession(req.SessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session_not_found", "unknown or expired session", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	var writeMu sync.Mutex
	emitter := &sseToolEmitter{mu: &writeMu, w: w, flusher: flusher, logger: h.logger}
	ctx := tools.ContextWithEmitter(r.Context(), emitter)

	callback := func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
		text := chunk.Text()
		if text == "" {
			return nil
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		return writeEvent(w, flusher, eventChunk, chunkPayload{Text: text})
	}

	resp, err := h.bot.ChatStream(ctx, history, req.Message, callback)
	if err != nil {
		h.logger.Error("streaming chat turn failed", "error", err, "session_id", id)
		_ = writeEvent(w, flusher, eventError, errorDetail{
			Code:    "generation_failed",
			Message: "could not generate a response",
		})
		return
	}

	if err := h.sessions.append(id, bot.Turn(req.Message, resp.FinalText)); err != nil {
		h.logger.Warn("appending to session history", "error", err, "session_id", id)
	}

	_ = writeEvent(w, flusher, eventDone, chatResponse{
		SessionID:  id.String(),
		Reply:      resp.FinalText,
		Intent:     string(resp.Intent.Intent),
		Confidence: resp.Intent.Confidence,
		Skill:      resp.Skill,
	})
}

// writeEvent writes one SSE event and flushes it to the client.
func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal SSE payload: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("write SSE event: %w", err)
	}
	flusher.Flush()
	return nil
}
