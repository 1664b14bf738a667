package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/betterlearn/betterlearn-api/apperr"
	"github.com/betterlearn/betterlearn-api/logger"
	"github.com/betterlearn/betterlearn-api/middleware"
	"github.com/betterlearn/betterlearn-api/models"
	"github.com/betterlearn/betterlearn-api/scheduler"
	"github.com/betterlearn/betterlearn-api/srs"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 16

type ReviewHandler struct {
	*scheduler.Scheduler
	Log     *logger.Logger
	Timeout time.Duration
}

func (h *ReviewHandler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.Timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.Timeout)
}

// TopicResponse is a Topic with the fields derived at read time.
type TopicResponse struct {
	models.Topic
	ReviewStatus    srs.ReviewStatus `json:"review_status"`
	DaysUntilReview float64          `json:"days_until_review"`
}

func newTopicResponse(t models.Topic, now time.Time) TopicResponse {
	return TopicResponse{
		Topic:           t,
		ReviewStatus:    srs.ReviewStatusAt(t.NextReviewAt, now),
		DaysUntilReview: srs.DaysUntil(t.NextReviewAt, now),
	}
}

func newTopicResponses(ts []models.Topic, now time.Time) []TopicResponse {
	out := make([]TopicResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, newTopicResponse(t, now))
	}
	return out
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperr.New(http.StatusBadRequest, "invalid_request", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps err to its client status. Causes of 5xx responses are
// logged, never returned.
func (h *ReviewHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ae := apperr.FromError(err)
	if ae.Status >= 500 {
		h.Log.Error(op+": failed", "request_id", middleware.RequestID(r.Context()), "error", err)
	} else {
		h.Log.Debug(op+": rejected", "request_id", middleware.RequestID(r.Context()), "error", err)
	}
	writeJSON(w, ae.Status, errorBody{Error: ae.Error(), Code: ae.Code})
}
