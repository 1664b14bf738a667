package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/betterlearn/betterlearn-api/apperr"
	"github.com/betterlearn/betterlearn-api/models"
)

// GormStore keeps topics and flashcards in a SQL database through gorm.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the topic and flashcard tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Topic{}, &models.Flashcard{})
}

func (s *GormStore) Get(ctx context.Context, id uint) (*models.Topic, error) {
	var topic models.Topic
	if err := s.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("topic %d", id))
	}
	return &topic, nil
}

func (s *GormStore) GetByName(ctx context.Context, name string) (*models.Topic, error) {
	var topic models.Topic
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&topic).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("topic %q", name))
	}
	return &topic, nil
}

func (s *GormStore) Create(ctx context.Context, name string, seedInterval float64) (*models.Topic, error) {
	topic, err := newTopic(name, seedInterval)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Topic{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Omit(clause.Associations).Create(&topic).Error
	})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("topic %q", name))
	}
	return &topic, nil
}

func (s *GormStore) Update(ctx context.Context, id uint, mutate Mutation) (*models.Topic, error) {
	var updated models.Topic
	var mutateErr error

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		// SQLite serializes writers through the single connection.
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var current models.Topic
		if err := q.First(&current, id).Error; err != nil {
			return err
		}

		next := current
		if err := mutate(&next); err != nil {
			mutateErr = err
			return err
		}
		next.ID = current.ID
		next.PublicID = current.PublicID
		next.Name = current.Name
		next.CreatedAt = current.CreatedAt

		if err := tx.Omit(clause.Associations).Save(&next).Error; err != nil {
			return err
		}
		updated = next
		return nil
	})
	if mutateErr != nil {
		return nil, mutateErr
	}
	if err != nil {
		return nil, translate(err, fmt.Sprintf("topic %d", id))
	}
	return &updated, nil
}

func (s *GormStore) List(ctx context.Context) ([]models.Topic, error) {
	topics := []models.Topic{}
	if err := s.db.WithContext(ctx).Order("id asc").Find(&topics).Error; err != nil {
		return nil, translate(err, "topics")
	}
	return topics, nil
}

func (s *GormStore) Cards(ctx context.Context, topicID uint) ([]models.Flashcard, error) {
	cards := []models.Flashcard{}
	err := s.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("position asc").
		Find(&cards).Error
	if err != nil {
		return nil, translate(err, fmt.Sprintf("cards for topic %d", topicID))
	}
	return cards, nil
}

func (s *GormStore) ReplaceCards(ctx context.Context, topicID uint, cards []models.Flashcard) error {
	rows := cloneCards(cards)
	for i := range rows {
		rows[i].ID = 0
		rows[i].TopicID = topicID
		rows[i].Position = i
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Topic{}).Where("id = ?", topicID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("topic_id = ?", topicID).Delete(&models.Flashcard{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return translate(err, fmt.Sprintf("topic %d", topicID))
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperr.Upstream(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperr.Upstream(err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error, subject string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", subject, apperr.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", subject, apperr.ErrAlreadyExists)
	default:
		return apperr.Upstream(err)
	}
}
