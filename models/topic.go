package models

import (
	"time"

	"github.com/betterlearn/betterlearn-api/srs"
)

// Topic is the unit of scheduling. It is mutated only by review submissions.
type Topic struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PublicID string `gorm:"size:32;uniqueIndex" json:"public_id"`
	Name     string `gorm:"not null;size:150;uniqueIndex" json:"name"`

	Status          srs.Status `gorm:"not null;size:16;default:new" json:"status"`
	CurrentInterval float64    `gorm:"not null" json:"current_interval"`
	NextReviewAt    *time.Time `gorm:"default:null;index" json:"next_review_at"`
	LastReviewedAt  *time.Time `gorm:"default:null" json:"last_reviewed_at"`
	LastAccuracy    float64    `gorm:"not null;default:0" json:"-"`
	TotalReviews    int        `gorm:"not null;default:0" json:"total_reviews"`

	Flashcards []Flashcard `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
