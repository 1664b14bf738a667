package handlers

import "net/http"

// Routes registers every endpoint on a new mux.
func (h *ReviewHandler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)

	// Topics
	mux.HandleFunc("GET /topics", h.ListTopics)
	mux.HandleFunc("GET /topics/due", h.ListDueTopics)
	mux.HandleFunc("GET /topics/progress", h.TopicProgress)

	// Review
	mux.HandleFunc("GET /review/{topicName}", h.StartReview)
	mux.HandleFunc("POST /submit-review", h.SubmitReview)
	mux.HandleFunc("POST /generate", h.Generate)

	return mux
}
