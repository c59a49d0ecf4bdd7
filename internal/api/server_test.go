package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vahanlabs/mahindrabot/internal/bot"
	"github.com/vahanlabs/mahindrabot/internal/intent"
	"github.com/vahanlabs/mahindrabot/internal/tools"
)

type fakeBot struct {
	resp       *bot.Response
	err        error
	chunks     []string
	toolName   string
	gotHistory int
	gotMessage string
}

func (f *fakeBot) Chat(ctx context.Context, history []*ai.Message, message string) (*bot.Response, error) {
	return f.ChatStream(ctx, history, message, nil)
}

func (f *fakeBot) ChatStream(ctx context.Context, history []*ai.Message, message string, callback bot.StreamCallback) (*bot.Response, error) {
	f.gotHistory = len(history)
	f.gotMessage = message
	if f.err != nil {
		return nil, f.err
	}
	if f.toolName != "" {
		if emitter := tools.EmitterFromContext(ctx); emitter != nil {
			emitter.OnToolStart(f.toolName)
			emitter.OnToolComplete(f.toolName)
		}
	}
	if callback != nil {
		for _, text := range f.chunks {
			chunk := &ai.ModelResponseChunk{Content: []*ai.Part{ai.NewTextPart(text)}}
			if err := callback(ctx, chunk); err != nil {
				return nil, err
			}
		}
	}
	return f.resp, nil
}

func defaultFakeBot() *fakeBot {
	return &fakeBot{
		resp: &bot.Response{
			FinalText: "Here are some cars.",
			Intent:    intent.Classification{Intent: intent.CarRecommendation, Confidence: 0.8},
			Skill:     "car_recommendation",
		},
	}
}

func newTestServer(t *testing.T, b ChatRunner) *Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv, err := NewServer(ctx, ServerConfig{
		Bot:    b,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return srv
}

func postChat(t *testing.T, srv *Server, path string, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	return w
}

func TestNewServer_RequiresBot(t *testing.T) {
	_, err := NewServer(context.Background(), ServerConfig{})
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, defaultFakeBot())

	r := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestChat_NewSession(t *testing.T) {
	fb := defaultFakeBot()
	srv := newTestServer(t, fb)

	w := postChat(t, srv, "/api/chat", map[string]string{"message": "suggest a car"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "Here are some cars.", resp.Reply)
	assert.Equal(t, "car_recommendation", resp.Intent)
	assert.Equal(t, "car_recommendation", resp.Skill)
	assert.InDelta(t, 0.8, resp.Confidence, 1e-9)
	assert.Equal(t, "suggest a car", fb.gotMessage)
	assert.Equal(t, 0, fb.gotHistory)

	_, err := uuid.Parse(resp.SessionID)
	assert.NoError(t, err, "session_id should be a UUID")
}

func TestChat_SessionContinuity(t *testing.T) {
	fb := defaultFakeBot()
	srv := newTestServer(t, fb)

	w := postChat(t, srv, "/api/chat", map[string]string{"message": "first"})
	require.Equal(t, http.StatusOK, w.Code)
	var first chatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = postChat(t, srv, "/api/chat", map[string]string{
		"session_id": first.SessionID,
		"message":    "second",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var second chatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, 2, fb.gotHistory, "second turn should see the first turn's two messages")
}

func TestChat_MissingMessage(t *testing.T) {
	srv := newTestServer(t, defaultFakeBot())

	w := postChat(t, srv, "/api/chat", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "missing_message", body.Error.Code)
}

func TestChat_UnknownSession(t *testing.T) {
	srv := newTestServer(t, defaultFakeBot())

	w := postChat(t, srv, "/api/chat", map[string]string{
		"session_id": uuid.New().String(),
		"message":    "hello",
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "session_not_found", body.Error.Code)
}

func TestChat_MalformedSessionID(t *testing.T) {
	srv := newTestServer(t, defaultFakeBot())

	w := postChat(t, srv, "/api/chat", map[string]string{
		"session_id": "not-a-uuid",
		"message":    "hello",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestChat_GenerationFailure(t *testing.T) {
	srv := newTestServer(t, &fakeBot{err: errors.New("model exploded")})

	w := postChat(t, srv, "/api/chat", map[string]string{"message": "hello"})
	require.Equal(t, http.StatusBadGateway, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "generation_failed", body.Error.Code)
}

func TestChat_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, defaultFakeBot())

	r := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatStream_SendsChunksAndDone(t *testing.T) {
	fb := defaultFakeBot()
	fb.chunks = []string{"Here are ", "some cars."}
	srv := newTestServer(t, fb)

	w := postChat(t, srv, "/api/chat/stream", map[string]string{"message": "suggest a car"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: chunk"))
	assert.Contains(t, body, `{"text":"Here are "}`)
	assert.Contains(t, body, "event: done")
	assert.Contains(t, body, `"reply":"Here are some cars."`)
}

func TestChatStream_ForwardsToolEvents(t *testing.T) {
	fb := defaultFakeBot()
	fb.toolName = "search_car"
	fb.chunks = []string{"The XUV700 ..."}
	srv := newTestServer(t, fb)

	w := postChat(t, srv, "/api/chat/stream", map[string]string{"message": "tell me about the XUV700"})
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: tool"))
	assert.Contains(t, body, `{"tool":"search_car","status":"started"}`)
	assert.Contains(t, body, `{"tool":"search_car","status":"completed"}`)
	assert.Contains(t, body, "event: done")
}

func TestChatStream_ErrorEvent(t *testing.T) {
	srv := newTestServer(t, &fakeBot{err: errors.New("model exploded")})

	w := postChat(t, srv, "/api/chat/stream", map[string]string{"message": "hello"})

	body := w.Body.String()
	assert.Contains(t, body, "event: error")
	assert.Contains(t, body, "generation_failed")
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, defaultFakeBot())

	w := postChat(t, srv, "/api/chat", map[string]string{"message": "hello"})
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRateLimit_Returns429(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv, err := NewServer(ctx, ServerConfig{
		Bot:       defaultFakeBot(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		RateBurst: 2,
	})
	require.NoError(t, err)

	var last *httptest.ResponseRecorder
	for range 3 {
		last = postChat(t, srv, "/api/chat", map[string]string{"message": "hello"})
	}

	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "1", last.Header().Get("Retry-After"))
}
