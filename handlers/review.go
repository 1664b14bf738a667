package handlers

import (
	"net/http"

	"github.com/betterlearn/betterlearn-api/apperr"
)

// GET /review/{topicName}
func (h *ReviewHandler) StartReview(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("topicName")
	if name == "" {
		h.writeError(w, r, "StartReview", apperr.Invalid("topic name is required"))
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	cards, err := h.Scheduler.StartReview(ctx, name)
	if err != nil {
		h.writeError(w, r, "StartReview", err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

type submitReviewRequest struct {
	TopicName      string `json:"topic_name"`
	TotalQuestions *int   `json:"total_questions"`
	CorrectAnswers *int   `json:"correct_answers"`
}

type submitReviewResponse struct {
	Accepted bool `json:"accepted"`
	TopicResponse
}

// POST /submit-review
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, "SubmitReview", err)
		return
	}
	if req.TotalQuestions == nil || req.CorrectAnswers == nil {
		h.writeError(w, r, "SubmitReview", apperr.Invalid("total_questions and correct_answers are required"))
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	topic, err := h.SubmitReviewByName(ctx, req.TopicName, *req.TotalQuestions, *req.CorrectAnswers)
	if err != nil {
		h.writeError(w, r, "SubmitReview", err)
		return
	}
	writeJSON(w, http.StatusOK, submitReviewResponse{
		Accepted:      true,
		TopicResponse: newTopicResponse(*topic, h.Now()),
	})
}
