// Package cache keeps recently served flashcard sets out of the database.
package cache

import (
	"context"

	"github.com/betterlearn/betterlearn-api/models"
)

// CardCache is consulted before the card store. A miss is (nil, false, nil).
type CardCache interface {
	Get(ctx context.Context, topicID uint) ([]models.Flashcard, bool, error)
	Set(ctx context.Context, topicID uint, cards []models.Flashcard) error
	Invalidate(ctx context.Context, topicID uint) error
	Close() error
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, uint) ([]models.Flashcard, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, uint, []models.Flashcard) error          { return nil }
func (Nop) Invalidate(context.Context, uint) error                       { return nil }
func (Nop) Close() error                                                 { return nil }
