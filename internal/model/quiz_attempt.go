package model

import (
	"time"

	"gorm.io/datatypes"
)

// AttemptAnswers questionID -> selectedOptionID
type AttemptAnswers map[string]string

// swagger:model QuizAttempt
type QuizAttempt struct {
	Base
	UserID      string                             `gorm:"index:idx_attempt_user_quiz;type:varchar(64);not null" json:"userId"`
	QuizID      string                             `gorm:"index:idx_attempt_user_quiz;type:varchar(36);not null" json:"quizId"`
	Answers     datatypes.JSONType[AttemptAnswers] `json:"answers"`
	Score       *int                               `json:"score"`
	Passed      *bool                              `json:"passed"`
	TimeTaken   *int                               `json:"timeTaken"` // Seconds
	StartedAt   time.Time                          `gorm:"index" json:"startedAt"`
	CompletedAt *time.Time                         `json:"completedAt"`
	IsCompleted bool                               `gorm:"index;not null;default:false" json:"isCompleted"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a *QuizAttempt) AnswerMap() AttemptAnswers {
	m := a.Answers.Data()
	if m == nil {
		return AttemptAnswers{}
	}
	return m
}
