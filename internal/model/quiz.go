package model

import "gorm.io/datatypes"

type QuizType string

const (
	QuizPractice   QuizType = "practice"
	QuizModuleTest QuizType = "module_test"
	QuizFinalExam  QuizType = "final_exam"
)

func (t QuizType) Valid() bool {
	switch t {
	case QuizPractice, QuizModuleTest, QuizFinalExam:
		return true
	}
	return false
}

// swagger:model Quiz
type Quiz struct {
	Base
	Title                  string                      `gorm:"size:255;not null" json:"title"`
	Description            string                      `gorm:"type:text" json:"description"`
	ModuleID               *string                     `gorm:"index;type:varchar(36)" json:"moduleId"` // nil 表示综合测验
	QuizType               QuizType                    `gorm:"size:20;not null" json:"quizType"`
	QuestionIDs            datatypes.JSONSlice[string] `json:"questionIds"`
	TimeLimit              *int                        `json:"timeLimit,omitempty"` // Minutes
	PassingScore           int                         `gorm:"not null" json:"passingScore"`
	RandomizeQuestions     bool                        `json:"randomizeQuestions"`
	RandomizeOptions       bool                        `json:"randomizeOptions"`
	ShowResultsImmediately bool                        `json:"showResultsImmediately"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
