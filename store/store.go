// Package store persists topics and their flashcard sets.
//
// Every error returned matches one of apperr.ErrNotFound,
// apperr.ErrAlreadyExists or apperr.ErrUpstreamUnavailable, except errors
// returned by an Update mutation, which are passed through untouched.
package store

import (
	"context"
	"strings"

	"github.com/betterlearn/betterlearn-api/apperr"
	"github.com/betterlearn/betterlearn-api/models"
	"github.com/betterlearn/betterlearn-api/srs"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Mutation edits a private copy of a topic inside Update. Returning an error
// aborts the update and nothing is written.
type Mutation func(t *models.Topic) error

type TopicStore interface {
	Get(ctx context.Context, id uint) (*models.Topic, error)
	GetByName(ctx context.Context, name string) (*models.Topic, error)
	// Create inserts a never-reviewed topic. It fails with ErrAlreadyExists
	// when the name is taken.
	Create(ctx context.Context, name string, seedInterval float64) (*models.Topic, error)
	// Update applies mutate atomically: concurrent updates of the same topic
	// are serialized and the whole record is written at once.
	Update(ctx context.Context, id uint, mutate Mutation) (*models.Topic, error)
	List(ctx context.Context) ([]models.Topic, error)
}

type CardStore interface {
	Cards(ctx context.Context, topicID uint) ([]models.Flashcard, error)
	// ReplaceCards swaps the topic's card set for cards in one transaction.
	ReplaceCards(ctx context.Context, topicID uint, cards []models.Flashcard) error
}

type Store interface {
	TopicStore
	CardStore
	Ping(ctx context.Context) error
	Close() error
}

// NormalizeName trims surrounding whitespace from a topic name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func newTopic(name string, seedInterval float64) (models.Topic, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return models.Topic{}, apperr.Upstream(err)
	}
	return models.Topic{
		PublicID:        publicID,
		Name:            name,
		Status:          srs.StatusNew,
		CurrentInterval: seedInterval,
	}, nil
}

func cloneTopic(t models.Topic) models.Topic {
	if t.NextReviewAt != nil {
		v := *t.NextReviewAt
		t.NextReviewAt = &v
	}
	if t.LastReviewedAt != nil {
		v := *t.LastReviewedAt
		t.LastReviewedAt = &v
	}
	t.Flashcards = nil
	return t
}

func cloneCards(in []models.Flashcard) []models.Flashcard {
	out := make([]models.Flashcard, len(in))
	for i, c := range in {
		c.Options = append([]string(nil), c.Options...)
		out[i] = c
	}
	return out
}
