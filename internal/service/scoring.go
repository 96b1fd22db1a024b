package service

import (
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/util"
)

// QuestionResult 评分后的单题明细，选项中的 isCorrect 此时对学生可见
type QuestionResult struct {
	QuestionID       string         `json:"questionId"`
	QuestionText     string         `json:"questionText"`
	SelectedOptionID *string        `json:"selectedOptionId"`
	CorrectOptionID  *string        `json:"correctOptionId"`
	IsCorrect        bool           `json:"isCorrect"`
	Options          []model.Option `json:"options"`
	Explanation      string         `json:"explanation"`
}

type GradeResult struct {
	Score          int
	Passed         bool
	CorrectAnswers int
	TotalQuestions int
	PassingScore   int
	Details        []QuestionResult
}

// Visible 测验不允许立即查看结果时不返回明细
func (g GradeResult) Visible(showDetails bool) []QuestionResult {
	if !showDetails {
		return nil
	}
	return g.Details
}

// Grade 以测验的题目列表为准计分。题目不存在或没有正确选项时按答错处理，仍计入总数。
func Grade(quiz *model.Quiz, questions []model.Question, answers model.AttemptAnswers) GradeResult {
	byID := make(map[string]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	result := GradeResult{
		TotalQuestions: len(quiz.QuestionIDs),
		PassingScore:   quiz.PassingScore,
		Details:        make([]QuestionResult, 0, len(quiz.QuestionIDs)),
	}

	for _, qid := range quiz.QuestionIDs {
		detail := QuestionResult{QuestionID: qid}
		if selected, ok := answers[qid]; ok && selected != "" {
			s := selected
			detail.SelectedOptionID = &s
		}

		q, ok := byID[qid]
		if ok {
			detail.QuestionText = q.Text
			detail.Options = append([]model.Option(nil), q.Options...)
			detail.Explanation = q.Explanation
			if key := q.CorrectOption(); key != nil {
				keyID := key.ID
				detail.CorrectOptionID = &keyID
				detail.IsCorrect = detail.SelectedOptionID != nil && *detail.SelectedOptionID == keyID
			}
		}

		if detail.IsCorrect {
			result.CorrectAnswers++
		}
		result.Details = append(result.Details, detail)
	}

	result.Score = util.RoundPercent(result.CorrectAnswers, result.TotalQuestions)
	result.Passed = result.Score >= quiz.PassingScore
	return result
}
