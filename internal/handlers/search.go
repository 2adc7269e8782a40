package handlers

import (
	"net/http"
)

// MaxQueryBytes is the longest accepted search query.
const MaxQueryBytes = 256

// PlaceholderText is returned in place of message bodies, which are not stored.
const PlaceholderText = "Sample message"

// SearchResult represents a single search result.
type SearchResult struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SearchResponse represents the search response.
type SearchResponse struct {
	Messages []SearchResult `json:"messages"`
}

// Search handles GET /search. An empty query yields no terms and matches
// every indexed message.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	if !params.Has("query") {
		h.Error(w, http.StatusBadRequest, "query parameter 'query' is required")
		return
	}
	query := params.Get("query")
	if len(query) > MaxQueryBytes {
		h.Error(w, http.StatusBadRequest, "query too long (max 256 bytes)")
		return
	}

	ids, err := h.chat.Search(r.Context(), query)
	if err != nil {
		status, text := statusFor(err)
		h.Error(w, status, text)
		return
	}

	results := make([]SearchResult, 0, len(ids))
	for _, id := range ids {
		results = append(results, SearchResult{ID: id, Text: PlaceholderText})
	}

	h.JSON(w, http.StatusOK, SearchResponse{Messages: results})
}
