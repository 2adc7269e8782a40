package handlers

import (
	"net/http"
)

// StatsResponse represents the response from the stats endpoint.
type StatsResponse struct {
	TotalMessages int64  `json:"total_messages"`
	IndexDriver   string `json:"index_driver"`
	LedgerDriver  string `json:"ledger_driver"`
}

// Stats returns index statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	total, err := h.chat.Count(r.Context())
	if err != nil {
		status, _ := statusFor(err)
		h.Error(w, status, "failed to count messages")
		return
	}

	resp := StatsResponse{TotalMessages: total}
	if h.index != nil {
		resp.IndexDriver = h.index.Driver()
	}
	if h.ledger != nil {
		resp.LedgerDriver = h.ledger.Driver()
	}
	h.JSON(w, http.StatusOK, resp)
}
