package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/betterlearn/betterlearn-api/apperr"
	"github.com/betterlearn/betterlearn-api/models"
)

func TestHTTPGenerator(t *testing.T) {
	var gotTopic string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got=%s want=POST", r.Method)
		}
		var body struct {
			Topic string `json:"topic"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotTopic = body.Topic
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"question":"What is ATP?","options":["a","b","c","d"],"correctAnswer":2}]`))
	}))
	defer srv.Close()

	g := NewHTTPGenerator(srv.URL, time.Second)
	cards, err := g.Generate(context.Background(), "Cell energy")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gotTopic != "Cell energy" {
		t.Fatalf("topic: got=%q", gotTopic)
	}
	if len(cards) != 1 || cards[0].CorrectAnswer != 2 || cards[0].Question != "What is ATP?" {
		t.Fatalf("cards: %+v", cards)
	}
}

func TestHTTPGeneratorFailuresAreUpstream(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		payload string
	}{
		{"server_error", http.StatusInternalServerError, `{"detail":"boom"}`},
		{"not_json", http.StatusOK, `<html>`},
		{"three_options", http.StatusOK, `[{"question":"q","options":["a","b","c"],"correctAnswer":0}]`},
		{"answer_out_of_range", http.StatusOK, `[{"question":"q","options":["a","b","c","d"],"correctAnswer":4}]`},
		{"empty", http.StatusOK, `[]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.payload))
			}))
			defer srv.Close()

			_, err := NewHTTPGenerator(srv.URL, time.Second).Generate(context.Background(), "x")
			if !errors.Is(err, apperr.ErrUpstreamUnavailable) {
				t.Fatalf("err=%v, want ErrUpstreamUnavailable", err)
			}
		})
	}
}

func TestHTTPGeneratorTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPGenerator(srv.URL, 50*time.Millisecond).Generate(context.Background(), "x")
	if !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("err=%v, want ErrUpstreamUnavailable", err)
	}
}

func TestPlaceholder(t *testing.T) {
	cards, err := Placeholder{Count: 3}.Generate(context.Background(), "Photosynthesis")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("len: got=%d want=3", len(cards))
	}
	if cards[0].Question != "What is Photosynthesis?" {
		t.Fatalf("question: got=%q", cards[0].Question)
	}
	if err := Validate(cards); err != nil {
		t.Fatalf("placeholder cards invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	ok := models.Flashcard{Question: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 3}
	if err := Validate([]models.Flashcard{ok}); err != nil {
		t.Fatalf("valid card rejected: %v", err)
	}
	blank := ok
	blank.Question = "  "
	if err := Validate([]models.Flashcard{ok, blank}); !errors.Is(err, ErrMalformedCards) {
		t.Fatalf("err=%v", err)
	}
}
