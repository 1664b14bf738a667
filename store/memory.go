package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/betterlearn/betterlearn-api/apperr"
	"github.com/betterlearn/betterlearn-api/models"
)

type memoryEntry struct {
	mu    sync.Mutex
	topic models.Topic
	cards []models.Flashcard
}

// MemoryStore is a process-local Store. Each topic has its own lock, so
// updates of different topics never wait on each other.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint
	byID   map[uint]*memoryEntry
	byName map[string]uint
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[uint]*memoryEntry),
		byName: make(map[string]uint),
		now:    time.Now,
	}
}

func (s *MemoryStore) entry(id uint) (*memoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	return e, ok
}

func (s *MemoryStore) Get(ctx context.Context, id uint) (*models.Topic, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Upstream(err)
	}
	e, ok := s.entry(id)
	if !ok {
		return nil, fmt.Errorf("topic %d: %w", id, apperr.ErrNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	t := cloneTopic(e.topic)
	return &t, nil
}

func (s *MemoryStore) GetByName(ctx context.Context, name string) (*models.Topic, error) {
	s.mu.RLock()
	id, ok := s.byName[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("topic %q: %w", name, apperr.ErrNotFound)
	}
	return s.Get(ctx, id)
}

func (s *MemoryStore) Create(ctx context.Context, name string, seedInterval float64) (*models.Topic, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Upstream(err)
	}
	topic, err := newTopic(name, seedInterval)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[name]; taken {
		return nil, fmt.Errorf("topic %q: %w", name, apperr.ErrAlreadyExists)
	}
	s.nextID++
	now := s.now()
	topic.ID = s.nextID
	topic.CreatedAt = now
	topic.UpdatedAt = now
	s.byID[topic.ID] = &memoryEntry{topic: cloneTopic(topic)}
	s.byName[name] = topic.ID
	return &topic, nil
}

func (s *MemoryStore) Update(ctx context.Context, id uint, mutate Mutation) (*models.Topic, error) {
	e, ok := s.entry(id)
	if !ok {
		return nil, fmt.Errorf("topic %d: %w", id, apperr.ErrNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, apperr.Upstream(err)
	}
	next := e.topic
	if err := mutate(&next); err != nil {
		return nil, err
	}
	next.ID = e.topic.ID
	next.PublicID = e.topic.PublicID
	next.Name = e.topic.Name
	next.CreatedAt = e.topic.CreatedAt
	next.UpdatedAt = s.now()
	e.topic = cloneTopic(next)
	return &next, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Topic, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Upstream(err)
	}
	s.mu.RLock()
	entries := make([]*memoryEntry, 0, len(s.byID))
	for _, e := range s.byID {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	topics := make([]models.Topic, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		topics = append(topics, cloneTopic(e.topic))
		e.mu.Unlock()
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

func (s *MemoryStore) Cards(ctx context.Context, topicID uint) ([]models.Flashcard, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Upstream(err)
	}
	e, ok := s.entry(topicID)
	if !ok {
		return []models.Flashcard{}, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneCards(e.cards), nil
}

func (s *MemoryStore) ReplaceCards(ctx context.Context, topicID uint, cards []models.Flashcard) error {
	if err := ctx.Err(); err != nil {
		return apperr.Upstream(err)
	}
	e, ok := s.entry(topicID)
	if !ok {
		return fmt.Errorf("topic %d: %w", topicID, apperr.ErrNotFound)
	}
	rows := cloneCards(cards)
	for i := range rows {
		rows[i].ID = uint(i + 1)
		rows[i].TopicID = topicID
		rows[i].Position = i
	}
	e.mu.Lock()
	e.cards = rows
	e.mu.Unlock()
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return apperr.Upstream(ctx.Err())
}

func (s *MemoryStore) Close() error { return nil }
