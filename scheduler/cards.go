package scheduler

import (
	"context"
	"sync"

	"github.com/betterlearn/betterlearn-api/apperr"
	"github.com/betterlearn/betterlearn-api/generator"
	"github.com/betterlearn/betterlearn-api/models"
)

// cardVersions counts card set replacements per topic so a reader holding
// cards from before a replacement does not put them back into the cache.
type cardVersions struct {
	mu sync.Mutex
	v  map[uint]uint64
}

func (c *cardVersions) current(topicID uint) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v[topicID]
}

// StartReview returns the card set for a topic without touching the topic
// record. Cards come from the cache, then the store, and are generated and
// stored only when the topic has none yet.
func (s *Scheduler) StartReview(ctx context.Context, name string) ([]models.Flashcard, error) {
	topic, err := s.Topic(ctx, name)
	if err != nil {
		return nil, err
	}

	cards, ok, err := s.cache.Get(ctx, topic.ID)
	if err != nil {
		s.log.Warn("Card cache read failed", "topic_id", topic.ID, "error", err)
	}
	if ok && len(cards) > 0 {
		return cards, nil
	}

	version := s.versions.current(topic.ID)
	cards, err = s.store.Cards(ctx, topic.ID)
	if err != nil {
		return nil, err
	}
	if len(cards) > 0 {
		s.cacheCards(ctx, topic.ID, version, cards)
		return cards, nil
	}

	// Generated cards are not cached here; the next read fills the cache
	// from the store.
	return s.flight(ctx, topic.Name, func(fctx context.Context) ([]models.Flashcard, error) {
		stored, err := s.store.Cards(fctx, topic.ID)
		if err != nil {
			return nil, err
		}
		if len(stored) > 0 {
			return stored, nil
		}
		return s.generateFor(fctx, topic)
	})
}

// Generate produces a fresh card set for name, creating the topic on first
// use and replacing any cards stored before. Concurrent calls for the same
// name share one upstream request.
func (s *Scheduler) Generate(ctx context.Context, name string) ([]models.Flashcard, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}

	return s.flight(ctx, name, func(fctx context.Context) ([]models.Flashcard, error) {
		topic, err := s.EnsureTopic(fctx, name)
		if err != nil {
			return nil, err
		}
		return s.generateFor(fctx, topic)
	})
}

// flight runs fn at most once at a time per topic name. fn runs on a context
// detached from the caller that started it and bounded by the generation
// timeout, so one caller giving up does not fail the others. Each caller
// still returns as soon as its own ctx is done.
func (s *Scheduler) flight(ctx context.Context, name string, fn func(context.Context) ([]models.Flashcard, error)) ([]models.Flashcard, error) {
	ch := s.generating.DoChan(name, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.genTimeout)
		defer cancel()
		return fn(fctx)
	})

	select {
	case <-ctx.Done():
		return nil, apperr.Upstream(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Flashcard), nil
	}
}

func (s *Scheduler) generateFor(ctx context.Context, topic *models.Topic) ([]models.Flashcard, error) {
	cards, err := s.gen.Generate(ctx, topic.Name)
	if err != nil {
		return nil, apperr.Upstream(err)
	}
	if err := generator.Validate(cards); err != nil {
		return nil, apperr.Upstream(err)
	}
	if err := s.store.ReplaceCards(ctx, topic.ID, cards); err != nil {
		return nil, err
	}

	s.versions.mu.Lock()
	if s.versions.v == nil {
		s.versions.v = make(map[uint]uint64)
	}
	s.versions.v[topic.ID]++
	err = s.cache.Invalidate(ctx, topic.ID)
	s.versions.mu.Unlock()
	if err != nil {
		s.log.Warn("Card cache invalidation failed", "topic_id", topic.ID, "error", err)
	}

	s.log.Info("Flashcards generated", "topic_id", topic.ID, "topic", topic.Name, "cards", len(cards))
	return cards, nil
}

// cacheCards stores cards read at version, unless the set was replaced since.
func (s *Scheduler) cacheCards(ctx context.Context, topicID uint, version uint64, cards []models.Flashcard) {
	s.versions.mu.Lock()
	defer s.versions.mu.Unlock()
	if s.versions.v[topicID] != version {
		return
	}
	if err := s.cache.Set(ctx, topicID, cards); err != nil {
		s.log.Warn("Card cache write failed", "topic_id", topicID, "error", err)
	}
}
