package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"eino_grocery_bot/internal/core"
	"eino_grocery_bot/internal/storage"
	"eino_grocery_bot/pkg"
	"eino_grocery_bot/src/logger"
)

const (
	defaultTranscriptLimit = 50
	maxTranscriptLimit     = 500
)

// ChatRequest is the body of POST /v1/chat
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse is the answer to one turn
type ChatResponse struct {
	SessionID  string `json:"session_id"`
	Response   string `json:"response"`
	ResolvedBy string `json:"resolved_by"`
}

// TranscriptResponse lists the latest turns of a session
type TranscriptResponse struct {
	SessionID string                `json:"session_id"`
	Entries   []pkg.TranscriptEntry `json:"entries"`
}

type handlers struct {
	deps  Deps
	locks *sessionLocks
}

func newHandlers(deps Deps) *handlers {
	return &handlers{deps: deps, locks: newSessionLocks()}
}

func (h *handlers) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required", "")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	// turns of one session run one at a time
	unlock := h.locks.lock(req.SessionID)
	output, err := h.deps.Chat.Execute(r.Context(), core.ProcessorInput{SessionID: req.SessionID, Message: req.Message})
	unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to process message", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		SessionID:  req.SessionID,
		Response:   output.Response,
		ResolvedBy: string(output.ResolvedBy),
	})
}

func (h *handlers) resetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	unlock := h.locks.lock(sessionID)
	err := h.deps.Chat.ResetSession(r.Context(), sessionID)
	unlock()

	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, storage.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found", sessionID)
	default:
		logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to reset session")
		writeError(w, http.StatusInternalServerError, "failed to reset session", err.Error())
	}
}

func (h *handlers) transcript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	limit := defaultTranscriptLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit", raw)
			return
		}
		limit = min(n, maxTranscriptLimit)
	}

	entries, err := h.deps.History.History(r.Context(), sessionID, limit)
	if err != nil {
		logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to read transcript")
		writeError(w, http.StatusInternalServerError, "failed to read transcript", err.Error())
		return
	}
	if entries == nil {
		entries = []pkg.TranscriptEntry{}
	}

	writeJSON(w, http.StatusOK, TranscriptResponse{SessionID: sessionID, Entries: entries})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(body); err != nil {
		logger.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	body := map[string]string{"error": message}
	if detail != "" {
		body["detail"] = detail
	}
	writeJSON(w, status, body)
}

// sessionLocks hands out one mutex per active session
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (s *sessionLocks) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}
