package models

import (
	"strings"
	"time"

	"github.com/mroshb/quizline/pkg/errors"
	"gorm.io/gorm"
)

type Quiz struct {
	ID        uint      `gorm:"primaryKey"`
	Question  string    `gorm:"type:text;not null"`
	Answer    string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Validation messages reported back to the user on add/edit.
const (
	MsgQuestionRequired = "La pregunta no puede estar vacía."
	MsgAnswerRequired   = "La respuesta no puede estar vacía."
)

// ValidationError lists every rule a quiz broke.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid quiz: " + strings.Join(e.Messages, "; ")
}

// Validate checks the quiz fields without touching the database.
func (q *Quiz) Validate() error {
	var msgs []string
	if strings.TrimSpace(q.Question) == "" {
		msgs = append(msgs, MsgQuestionRequired)
	}
	if strings.TrimSpace(q.Answer) == "" {
		msgs = append(msgs, MsgAnswerRequired)
	}
	if len(msgs) > 0 {
		return errors.Wrap(&ValidationError{Messages: msgs}, errors.ErrCodeValidation, "quiz validation failed")
	}
	return nil
}

// BeforeSave hook for validation
func (q *Quiz) BeforeSave(tx *gorm.DB) error {
	return q.Validate()
}
