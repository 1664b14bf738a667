package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/betterlearn/betterlearn-api/apperr"
	"github.com/betterlearn/betterlearn-api/models"
	"github.com/betterlearn/betterlearn-api/srs"
	"github.com/betterlearn/betterlearn-api/store"
)

type mapCache struct {
	mu      sync.Mutex
	entries map[uint][]models.Flashcard
	gets    int
}

func newMapCache() *mapCache { return &mapCache{entries: map[uint][]models.Flashcard{}} }

func (c *mapCache) Get(_ context.Context, id uint) ([]models.Flashcard, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	cards, ok := c.entries[id]
	return cards, ok, nil
}

func (c *mapCache) Set(_ context.Context, id uint, cards []models.Flashcard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = cards
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

func (c *mapCache) Close() error { return nil }

func TestGenerateCreatesTopicAndStoresCards(t *testing.T) {
	ctx := context.Background()
	gen := &countingGenerator{}
	s, _ := newScheduler(t, nil, gen)

	cards, err := s.Generate(ctx, "Photosynthesis")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("cards: got=%d want=2", len(cards))
	}

	topic, err := s.Topic(ctx, "Photosynthesis")
	if err != nil {
		t.Fatalf("Topic: %v", err)
	}
	if topic.TotalReviews != 0 || srs.ReviewStatusAt(topic.NextReviewAt, s.Now()) != srs.ReviewNew {
		t.Fatalf("generated topic should be new: %+v", topic)
	}

	again, err := s.StartReview(ctx, "Photosynthesis")
	if err != nil {
		t.Fatalf("StartReview: %v", err)
	}
	if len(again) != 2 || gen.calls.Load() != 1 {
		t.Fatalf("StartReview should serve stored cards: len=%d calls=%d", len(again), gen.calls.Load())
	}
}

func TestStartReviewDoesNotMutateTopic(t *testing.T) {
	ctx := context.Background()
	s, _ := newScheduler(t, nil, nil)
	topic, _ := s.CreateTopic(ctx, "Ecology")
	reviewed, _ := s.SubmitReview(ctx, Outcome{TopicID: topic.ID, TotalQuestions: 5, CorrectAnswers: 5})

	if _, err := s.StartReview(ctx, "Ecology"); err != nil {
		t.Fatalf("StartReview: %v", err)
	}
	after, _ := s.Topic(ctx, "Ecology")
	if after.TotalReviews != reviewed.TotalReviews ||
		after.CurrentInterval != reviewed.CurrentInterval ||
		!after.NextReviewAt.Equal(*reviewed.NextReviewAt) {
		t.Fatalf("StartReview changed topic: before=%+v after=%+v", reviewed, after)
	}
}

func TestStartReviewUnknownTopic(t *testing.T) {
	s, _ := newScheduler(t, nil, nil)
	if _, err := s.StartReview(context.Background(), "nothing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestStartReviewUsesCache(t *testing.T) {
	ctx := context.Background()
	gen := &countingGenerator{}
	c := newMapCache()
	s, err := New(Options{Store: store.NewMemoryStore(), Generator: gen, Cache: c, Policy: srs.DefaultPolicy})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.CreateTopic(ctx, "Cells"); err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}

	first, err := s.StartReview(ctx, "Cells")
	if err != nil {
		t.Fatalf("StartReview: %v", err)
	}
	second, err := s.StartReview(ctx, "Cells")
	if err != nil {
		t.Fatalf("StartReview: %v", err)
	}
	if len(first) != len(second) || gen.calls.Load() != 1 {
		t.Fatalf("len=%d/%d calls=%d", len(first), len(second), gen.calls.Load())
	}
	if len(c.entries) != 1 {
		t.Fatalf("cache entries: %d", len(c.entries))
	}

	if _, err := s.Generate(ctx, "Cells"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(c.entries) != 0 {
		t.Fatal("Generate should invalidate cached cards")
	}
}

func TestGenerateFailureIsUpstream(t *testing.T) {
	ctx := context.Background()
	gen := &countingGenerator{err: errors.New("connection refused")}
	s, _ := newScheduler(t, nil, gen)

	if _, err := s.Generate(ctx, "Biology"); !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("err=%v", err)
	}
	if _, err := s.StartReview(ctx, "Biology"); !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("StartReview err=%v", err)
	}
}

func TestConcurrentGenerateIsCoalesced(t *testing.T) {
	ctx := context.Background()
	gen := &countingGenerator{delay: 50 * time.Millisecond}
	s, _ := newScheduler(t, nil, gen)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Generate(ctx, "Chemistry"); err != nil {
				t.Errorf("Generate: %v", err)
			}
		}()
	}
	wg.Wait()

	if calls := gen.calls.Load(); calls >= 8 {
		t.Fatalf("expected coalesced calls, got %d", calls)
	}
	topics, _ := s.ListTopics(ctx)
	if len(topics) != 1 {
		t.Fatalf("topics: got=%d want=1", len(topics))
	}
}

func TestConcurrentStartReviewGeneratesOnce(t *testing.T) {
	ctx := context.Background()
	gen := &countingGenerator{delay: 50 * time.Millisecond}
	s, _ := newScheduler(t, nil, gen)
	if _, err := s.CreateTopic(ctx, "Chemistry"); err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}

	var wg sync.WaitGroup
	results := make([][]models.Flashcard, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cards, err := s.StartReview(ctx, "Chemistry")
			if err != nil {
				t.Errorf("StartReview: %v", err)
				return
			}
			results[i] = cards
		}(i)
	}
	wg.Wait()

	if calls := gen.calls.Load(); calls != 1 {
		t.Fatalf("generator calls: got=%d want=1", calls)
	}
	for i, cards := range results {
		if len(cards) != 2 || cards[0].Question != results[0][0].Question {
			t.Fatalf("caller %d got a different card set: %+v", i, cards)
		}
	}
}

func TestGenerateSurvivesOtherCallerTimeout(t *testing.T) {
	gen := &countingGenerator{delay: 100 * time.Millisecond}
	s, _ := newScheduler(t, nil, gen)

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	shortErr := make(chan error, 1)
	go func() {
		_, err := s.Generate(short, "Physics")
		shortErr <- err
	}()
	time.Sleep(5 * time.Millisecond)

	cards, err := s.Generate(context.Background(), "Physics")
	if err != nil {
		t.Fatalf("Generate with live context: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("cards: got=%d want=2", len(cards))
	}
	if err := <-shortErr; !errors.Is(err, apperr.ErrUpstreamUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("short caller err=%v", err)
	}
	if calls := gen.calls.Load(); calls != 1 {
		t.Fatalf("generator calls: got=%d want=1", calls)
	}
}

// replacingStore runs a Generate between the store read of StartReview and
// its cache write.
type replacingStore struct {
	store.Store
	sched *Scheduler
	once  sync.Once
}

func (r *replacingStore) Cards(ctx context.Context, topicID uint) ([]models.Flashcard, error) {
	cards, err := r.Store.Cards(ctx, topicID)
	r.once.Do(func() {
		topic, _ := r.Store.Get(ctx, topicID)
		if _, gerr := r.sched.Generate(ctx, topic.Name); gerr != nil {
			err = gerr
		}
	})
	return cards, err
}

func TestStartReviewDoesNotCacheReplacedCards(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	topic, err := mem.Create(ctx, "Geology", 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	stale := []models.Flashcard{{Question: "old", Options: []string{"a", "b", "c", "d"}}}
	if err := mem.ReplaceCards(ctx, topic.ID, stale); err != nil {
		t.Fatalf("ReplaceCards: %v", err)
	}

	rs := &replacingStore{Store: mem}
	c := newMapCache()
	s, err := New(Options{Store: rs, Generator: &countingGenerator{}, Cache: c, Policy: srs.DefaultPolicy})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rs.sched = s

	if _, err := s.StartReview(ctx, "Geology"); err != nil {
		t.Fatalf("StartReview: %v", err)
	}
	if cached, ok := c.entries[topic.ID]; ok {
		t.Fatalf("replaced cards were cached: %+v", cached)
	}

	cards, err := s.StartReview(ctx, "Geology")
	if err != nil {
		t.Fatalf("StartReview: %v", err)
	}
	if len(cards) != 2 || cards[0].Question == "old" {
		t.Fatalf("expected the regenerated set: %+v", cards)
	}
}
