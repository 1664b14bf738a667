// Package generator talks to the flashcard generation service.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/betterlearn/betterlearn-api/models"
)

// OptionsPerCard is the number of choices on every card.
const OptionsPerCard = 4

var ErrMalformedCards = errors.New("generator: malformed cards")

type Generator interface {
	Generate(ctx context.Context, topic string) ([]models.Flashcard, error)
}

// Validate checks cards returned by a generator before they are stored.
func Validate(cards []models.Flashcard) error {
	if len(cards) == 0 {
		return fmt.Errorf("%w: no cards", ErrMalformedCards)
	}
	for i, c := range cards {
		if strings.TrimSpace(c.Question) == "" {
			return fmt.Errorf("%w: card %d has no question", ErrMalformedCards, i)
		}
		if len(c.Options) != OptionsPerCard {
			return fmt.Errorf("%w: card %d has %d options, want %d", ErrMalformedCards, i, len(c.Options), OptionsPerCard)
		}
		if c.CorrectAnswer < 0 || c.CorrectAnswer >= len(c.Options) {
			return fmt.Errorf("%w: card %d correctAnswer %d out of range", ErrMalformedCards, i, c.CorrectAnswer)
		}
	}
	return nil
}
