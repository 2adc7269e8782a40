package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

// MaxMessageBytes is the largest accepted chat message.
const MaxMessageBytes = 4096

// ChatRequest is the optional JSON body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned by POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
	ID       string `json:"id"`
}

// Chat handles POST /chat. The message comes from the "message" query
// parameter or, when absent, from a JSON body.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" && r.Body != nil {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			h.Error(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		message = req.Message
	}

	if message == "" {
		h.Error(w, http.StatusBadRequest, "message is required")
		return
	}
	if len(message) > MaxMessageBytes {
		h.Error(w, http.StatusUnprocessableEntity, "message too long (max 4096 bytes)")
		return
	}

	msg, err := h.chat.Ingest(r.Context(), message)
	if err != nil {
		status, text := statusFor(err)
		hlog.FromRequest(r).Error().
			Err(err).
			Int("status", status).
			Msg("chat ingest failed")
		h.Error(w, status, text)
		return
	}

	h.JSON(w, http.StatusOK, ChatResponse{
		Response: msg.Reply,
		ID:       msg.ID,
	})
}
