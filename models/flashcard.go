package models

// Flashcard is a multiple-choice card belonging to a topic
type Flashcard struct {
	ID      uint `gorm:"primaryKey" json:"-"`
	TopicID uint `gorm:"not null;index" json:"-"`

	Position      int      `gorm:"not null;default:0" json:"-"`
	Question      string   `gorm:"not null;size:500" json:"question"`
	Options       []string `gorm:"serializer:json;type:text;not null" json:"options"`
	CorrectAnswer int      `gorm:"not null" json:"correctAnswer"`
}
