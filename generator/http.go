package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/betterlearn/betterlearn-api/apperr"
	"github.com/betterlearn/betterlearn-api/models"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 1 << 20

// HTTPGenerator posts {"topic": name} to URL and expects a JSON array of
// {question, options, correctAnswer}.
type HTTPGenerator struct {
	URL    string
	Client *http.Client
}

func NewHTTPGenerator(url string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, topic string) ([]models.Flashcard, error) {
	payload, err := json.Marshal(struct {
		Topic string `json:"topic"`
	}{Topic: topic})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Upstream(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, apperr.Upstream(fmt.Errorf("generate %q: %w", topic, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperr.Upstream(fmt.Errorf("read generator response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Upstream(fmt.Errorf("generator returned %d", resp.StatusCode))
	}

	var cards []models.Flashcard
	if err := json.Unmarshal(body, &cards); err != nil {
		return nil, apperr.Upstream(fmt.Errorf("%w: %v", ErrMalformedCards, err))
	}
	if err := Validate(cards); err != nil {
		return nil, apperr.Upstream(err)
	}
	return cards, nil
}
