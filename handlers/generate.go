package handlers

import (
	"net/http"
)

type generateRequest struct {
	Topic string `json:"topic"`
}

// POST /generate
func (h *ReviewHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, "Generate", err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	cards, err := h.Scheduler.Generate(ctx, req.Topic)
	if err != nil {
		h.writeError(w, r, "Generate", err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}
