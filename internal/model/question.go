package model

import "gorm.io/datatypes"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Option 选择题选项，IsCorrect 只在评分后返回给学生
type Option struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation,omitempty"`
}

// swagger:model Question
type Question struct {
	Base
	ModuleID    string                      `gorm:"index;type:varchar(36)" json:"moduleId"`
	SectionID   *string                     `gorm:"type:varchar(36)" json:"sectionId,omitempty"`
	Text        string                      `gorm:"type:text;not null" json:"text"`
	Options     datatypes.JSONSlice[Option] `json:"options"`
	Difficulty  Difficulty                  `gorm:"size:20" json:"difficulty"`
	Topic       string                      `gorm:"size:255" json:"topic"`
	Explanation string                      `gorm:"type:text" json:"explanation"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectOption 返回第一个标记为正确的选项，没有则为 nil
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}
