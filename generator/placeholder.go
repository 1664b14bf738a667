package generator

import (
	"context"
	"fmt"

	"github.com/betterlearn/betterlearn-api/models"
)

// Placeholder produces deterministic cards without any upstream. It is used
// when no generation service is configured.
type Placeholder struct {
	Count int
}

func (p Placeholder) Generate(ctx context.Context, topic string) ([]models.Flashcard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := p.Count
	if n <= 0 {
		n = 1
	}
	cards := make([]models.Flashcard, 0, n)
	for i := 0; i < n; i++ {
		q := fmt.Sprintf("What is %s?", topic)
		if i > 0 {
			q = fmt.Sprintf("What is %s? (%d)", topic, i+1)
		}
		cards = append(cards, models.Flashcard{
			Question: q,
			Options: []string{
				fmt.Sprintf("A definition of %s", topic),
				"Something unrelated",
				"None of the above",
				"All of the above",
			},
			CorrectAnswer: 0,
		})
	}
	return cards, nil
}
