package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linlv/internal/assistant"
	"github.com/MrSnakeDoc/linlv/internal/domain"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linlv/internal/logger"
)

// maxMessageBytes bounds a chat message body.
const maxMessageBytes = 16 << 10

type sessionResponse struct {
	ID         string            `json:"id"`
	State      assistant.State   `json:"state"`
	Transcript []domain.ChatTurn `json:"transcript"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	sessionResponse
	Reply domain.ChatTurn `json:"reply"`
}

func snapshot(id string, s *assistant.Session) sessionResponse {
	return sessionResponse{ID: id, State: s.State(), Transcript: s.Transcript()}
}

func newSession(d deps.Deps) *assistant.Session {
	return assistant.NewSession(d.Completer, d.Logger, assistant.Options{
		Model:   d.AssistantModel,
		Timeout: d.AssistantTimeout,
		Now:     d.TimeNow,
	})
}

// CreateSession starts a conversation seeded with the greeting.
func CreateSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := newSession(d)
		id := d.Sessions.Add(s)
		d.Logger.Debug("assistant session created", logger.String("session_id", id))
		writeJSON(w, http.StatusCreated, snapshot(id, s))
	}
}

// GetSession returns the state and transcript of a session.
func GetSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s, ok := d.Sessions.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeJSON(w, http.StatusOK, snapshot(id, s))
	}
}

// PostMessage submits a user message and waits for the assistant turn.
func PostMessage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s, ok := d.Sessions.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}

		var req messageRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxMessageBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		ch, err := s.Submit(r.Context(), req.Text)
		switch {
		case errors.Is(err, assistant.ErrEmptyInput):
			writeError(w, http.StatusBadRequest, "message text is empty")
			return
		case errors.Is(err, assistant.ErrBusy):
			writeError(w, http.StatusConflict, "assistant is still answering the previous message")
			return
		case errors.Is(err, assistant.ErrRetired):
			writeError(w, http.StatusNotFound, "session not found")
			return
		case err != nil:
			d.Logger.Error("assistant submit failed", logger.String("session_id", id), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		select {
		case turn := <-ch:
			writeJSON(w, http.StatusOK, messageResponse{sessionResponse: snapshot(id, s), Reply: turn})
		case <-r.Context().Done():
			// The timeout middleware answers 504 on deadline; a cancelled
			// client is gone. The reply still lands in the session either way.
			d.Logger.Warn("request ended before the assistant replied",
				logger.String("session_id", id),
				logger.Error(r.Context().Err()))
		}
	}
}

// ResetSession restores the greeting-only transcript.
func ResetSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s, ok := d.Sessions.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err := s.Reset(); err != nil {
			if errors.Is(err, assistant.ErrRetired) {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}
			writeError(w, http.StatusConflict, "assistant is still answering, try again later")
			return
		}
		writeJSON(w, http.StatusOK, snapshot(id, s))
	}
}
