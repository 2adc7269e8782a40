package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/CoderDill/chat-app-hedera/internal/ledger"
	"github.com/CoderDill/chat-app-hedera/internal/models"
	"github.com/CoderDill/chat-app-hedera/internal/reply"
	"github.com/CoderDill/chat-app-hedera/internal/store"
)

// ChatService is the part of chat.Service the handlers depend on.
type ChatService interface {
	Ingest(ctx context.Context, message string) (*models.Message, error)
	Search(ctx context.Context, query string) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	chat   ChatService
	index  store.IndexStore
	ledger ledger.Notifier
	redis  *redis.Client
}

// NewHandler creates a new Handler. rdb may be nil when no Redis is configured.
func NewHandler(chat ChatService, index store.IndexStore, notifier ledger.Notifier, rdb *redis.Client) *Handler {
	return &Handler{chat: chat, index: index, ledger: notifier, redis: rdb}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// statusFor maps pipeline errors onto HTTP status codes and client messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrSubmission):
		return http.StatusBadGateway, "ledger submission failed"
	case errors.Is(err, reply.ErrGeneration):
		return http.StatusBadGateway, "reply generation failed"
	case errors.Is(err, store.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "index store unavailable"
	case errors.Is(err, store.ErrDuplicateKey):
		return http.StatusInternalServerError, "message id collision"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
