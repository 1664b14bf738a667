package handlers

import (
	"net/http"
)

// GET /topics
func (h *ReviewHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	topics, err := h.Scheduler.ListTopics(ctx)
	if err != nil {
		h.writeError(w, r, "ListTopics", err)
		return
	}
	writeJSON(w, http.StatusOK, newTopicResponses(topics, h.Now()))
}

// GET /topics/due
func (h *ReviewHandler) ListDueTopics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	topics, err := h.ListDue(ctx)
	if err != nil {
		h.writeError(w, r, "ListDueTopics", err)
		return
	}
	writeJSON(w, http.StatusOK, newTopicResponses(topics, h.Now()))
}

// GET /topics/progress
func (h *ReviewHandler) TopicProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	progress, err := h.Progress(ctx)
	if err != nil {
		h.writeError(w, r, "TopicProgress", err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// GET /healthz
func (h *ReviewHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.Ping(ctx); err != nil {
		h.writeError(w, r, "Health", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
