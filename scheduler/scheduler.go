// Package scheduler applies review outcomes to topics and answers which
// topics are due.
//
// A topic moves New -> Scheduled on its first review, Scheduled -> Due when
// its next_review_at passes, and back to Scheduled on every later review.
// The Due transition is derived at read time and never stored.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/betterlearn/betterlearn-api/apperr"
	"github.com/betterlearn/betterlearn-api/cache"
	"github.com/betterlearn/betterlearn-api/generator"
	"github.com/betterlearn/betterlearn-api/logger"
	"github.com/betterlearn/betterlearn-api/models"
	"github.com/betterlearn/betterlearn-api/srs"
	"github.com/betterlearn/betterlearn-api/store"
)

type Options struct {
	Store     store.Store
	Generator generator.Generator
	Cache     cache.CardCache
	Policy    srs.Policy
	Log       *logger.Logger
	// GenerateTimeout bounds one shared card generation. Defaults to
	// DefaultGenerateTimeout.
	GenerateTimeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

const DefaultGenerateTimeout = 30 * time.Second

type Scheduler struct {
	store  store.Store
	gen    generator.Generator
	cache  cache.CardCache
	policy srs.Policy
	log    *logger.Logger
	now    func() time.Time

	genTimeout time.Duration
	generating singleflight.Group
	versions   cardVersions
}

func New(opts Options) (*Scheduler, error) {
	if opts.Store == nil {
		return nil, errors.New("scheduler: store required")
	}
	if opts.Generator == nil {
		return nil, errors.New("scheduler: generator required")
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = DefaultGenerateTimeout
	}
	return &Scheduler{
		store:  opts.Store,
		gen:    opts.Generator,
		cache:  opts.Cache,
		policy: opts.Policy,
		log:    opts.Log.With("service", "Scheduler"),
		now:    opts.Now,

		genTimeout: opts.GenerateTimeout,
	}, nil
}

// Now is the clock every derived field is computed against.
func (s *Scheduler) Now() time.Time { return s.now() }

func (s *Scheduler) Policy() srs.Policy { return s.policy }

// Ping checks that the store is reachable.
func (s *Scheduler) Ping(ctx context.Context) error { return s.store.Ping(ctx) }

// Outcome is one completed quiz session for a topic.
type Outcome struct {
	TopicID        uint
	TotalQuestions int
	CorrectAnswers int
}

// Accuracy validates the outcome and returns correct/total.
func (o Outcome) Accuracy() (float64, error) {
	acc, err := srs.Accuracy(o.CorrectAnswers, o.TotalQuestions)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperr.ErrInvalidOutcome, err)
	}
	return acc, nil
}

func validName(name string) (string, error) {
	name = store.NormalizeName(name)
	if name == "" {
		return "", apperr.Invalid("topic name is required")
	}
	return name, nil
}

// CreateTopic registers a never-reviewed topic. A taken name fails with
// apperr.ErrAlreadyExists.
func (s *Scheduler) CreateTopic(ctx context.Context, name string) (*models.Topic, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}
	return s.store.Create(ctx, name, s.policy.SeedInterval)
}

// EnsureTopic returns the topic with this name, creating it on first use.
func (s *Scheduler) EnsureTopic(ctx context.Context, name string) (*models.Topic, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}
	topic, err := s.store.GetByName(ctx, name)
	if err == nil {
		return topic, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	topic, err = s.store.Create(ctx, name, s.policy.SeedInterval)
	if errors.Is(err, apperr.ErrAlreadyExists) {
		// Lost a creation race; the winner's row is the topic.
		return s.store.GetByName(ctx, name)
	}
	return topic, err
}

func (s *Scheduler) Topic(ctx context.Context, name string) (*models.Topic, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}
	return s.store.GetByName(ctx, name)
}

func (s *Scheduler) ListTopics(ctx context.Context) ([]models.Topic, error) {
	return s.store.List(ctx)
}

// ListDue returns topics that are new or past their review time, never
// reviewed first and then most overdue first.
func (s *Scheduler) ListDue(ctx context.Context) ([]models.Topic, error) {
	topics, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	due := make([]models.Topic, 0, len(topics))
	for _, t := range topics {
		if srs.IsDue(t.NextReviewAt, now) {
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].NextReviewAt, due[j].NextReviewAt
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return true
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})
	return due, nil
}

// SubmitReview applies an outcome to its topic. Validation happens before the
// store is touched; the interval, status, due time and counter are written
// together or not at all. SubmitReview is not idempotent.
func (s *Scheduler) SubmitReview(ctx context.Context, o Outcome) (*models.Topic, error) {
	acc, err := o.Accuracy()
	if err != nil {
		return nil, err
	}
	now := s.now()

	topic, err := s.store.Update(ctx, o.TopicID, func(t *models.Topic) error {
		s.apply(t, acc, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Review recorded",
		"topic_id", topic.ID,
		"accuracy", acc,
		"interval", topic.CurrentInterval,
		"status", topic.Status,
		"total_reviews", topic.TotalReviews,
	)
	return topic, nil
}

// SubmitReviewByName resolves name and submits the outcome for it.
func (s *Scheduler) SubmitReviewByName(ctx context.Context, name string, totalQuestions, correctAnswers int) (*models.Topic, error) {
	o := Outcome{TotalQuestions: totalQuestions, CorrectAnswers: correctAnswers}
	if _, err := o.Accuracy(); err != nil {
		return nil, err
	}
	topic, err := s.Topic(ctx, name)
	if err != nil {
		return nil, err
	}
	o.TopicID = topic.ID
	return s.SubmitReview(ctx, o)
}

func (s *Scheduler) apply(t *models.Topic, accuracy float64, now time.Time) {
	current := t.CurrentInterval
	if t.TotalReviews == 0 {
		current = s.policy.SeedInterval
	}
	interval := s.policy.NextInterval(current, accuracy)
	next := srs.NextReviewAt(now, interval)
	reviewed := now

	t.TotalReviews++
	t.CurrentInterval = interval
	t.LastAccuracy = accuracy
	t.Status = s.policy.Classify(accuracy, t.TotalReviews)
	t.NextReviewAt = &next
	t.LastReviewedAt = &reviewed
}
