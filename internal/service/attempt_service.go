package service

import (
	"context"
	"errors"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/util"
	"istqb_study_backend/pkg/logger"
	"istqb_study_backend/pkg/monitoring"
	"istqb_study_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type AttemptService struct {
	Content  ContentReader
	Attempts AttemptStore
	Now      func() time.Time
}

func NewAttemptService(content ContentReader, attempts AttemptStore) *AttemptService {
	return &AttemptService{Content: content, Attempts: attempts, Now: time.Now}
}

type StartResult struct {
	AttemptID string    `json:"attemptId"`
	StartedAt time.Time `json:"startedAt"`
}

// Answer SelectedOptionID 为空表示该题未作答，按错误计分
type Answer struct {
	QuestionID       string `json:"questionId" binding:"required"`
	SelectedOptionID string `json:"selectedOptionId"`
}

type SubmitInput struct {
	// AttemptID 可选，为空时提交该用户该测验最近开始的未完成尝试
	AttemptID string   `json:"attemptId"`
	Answers   []Answer `json:"answers" binding:"dive"`
	TimeTaken int      `json:"timeTaken" binding:"min=0"`
}

type SubmitResult struct {
	AttemptID       string           `json:"attemptId"`
	Score           int              `json:"score"`
	Passed          bool             `json:"passed"`
	CorrectAnswers  int              `json:"correctAnswers"`
	TotalQuestions  int              `json:"totalQuestions"`
	PassingScore    int              `json:"passingScore"`
	TimeTaken       int              `json:"timeTaken"`
	DetailedResults []QuestionResult `json:"detailedResults,omitempty"`
}

type AttemptHistoryItem struct {
	model.QuizAttempt
	QuizTitle string         `json:"quizTitle"`
	QuizType  model.QuizType `json:"quizType"`
}

type AttemptDetail struct {
	Attempt         model.QuizAttempt `json:"attempt"`
	Quiz            QuizSummary       `json:"quiz"`
	CorrectAnswers  int               `json:"correctAnswers"`
	TotalQuestions  int               `json:"totalQuestions"`
	DetailedResults []QuestionResult  `json:"detailedResults"`
}

// answerMap 校验并转换提交的答案，同一题出现多次视为非法请求
func answerMap(answers []Answer) (model.AttemptAnswers, error) {
	m := make(model.AttemptAnswers, len(answers))
	for _, a := range answers {
		if _, dup := m[a.QuestionID]; dup {
			return nil, util.ErrDuplicateAnswer
		}
		m[a.QuestionID] = a.SelectedOptionID
	}
	return m, nil
}

func (s *AttemptService) Start(ctx context.Context, userID, quizID string) (result *StartResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "AttemptService.Start", attribute.String("quiz.id", quizID))
	defer func() { tracing.EndSpan(span, err) }()

	quiz, err := s.Content.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		UserID:    userID,
		QuizID:    quiz.ID,
		Answers:   datatypes.NewJSONType(model.AttemptAnswers{}),
		StartedAt: s.Now().UTC(),
	}
	if err := s.Attempts.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	monitoring.AttemptsStarted.WithLabelValues(string(quiz.QuizType)).Inc()
	logger.Log.Info("Quiz attempt started",
		zap.String("attemptId", attempt.ID),
		zap.String("quizId", quiz.ID),
		zap.String("userId", userID))

	return &StartResult{AttemptID: attempt.ID, StartedAt: attempt.StartedAt}, nil
}

// resolvePending 指定 attemptID 时校验归属，否则取最近开始的未完成尝试
func (s *AttemptService) resolvePending(ctx context.Context, userID, quizID, attemptID string) (*model.QuizAttempt, error) {
	if attemptID == "" {
		return s.Attempts.FindLatestPendingAttempt(ctx, userID, quizID)
	}

	attempt, err := s.Attempts.FindAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID || attempt.QuizID != quizID {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.IsCompleted {
		return nil, util.ErrAttemptAlreadySubmitted
	}
	return attempt, nil
}

func (s *AttemptService) Submit(ctx context.Context, userID, quizID string, in SubmitInput) (result *SubmitResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "AttemptService.Submit", attribute.String("quiz.id", quizID))
	defer func() { tracing.EndSpan(span, err) }()

	if in.TimeTaken < 0 {
		return nil, util.ErrInvalidTimeSpent
	}
	answers, err := answerMap(in.Answers)
	if err != nil {
		return nil, err
	}

	quiz, err := s.Content.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	attempt, err := s.resolvePending(ctx, userID, quiz.ID, in.AttemptID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("attempt.id", attempt.ID))

	questions, err := s.Content.ListQuestionsByIDs(ctx, quiz.QuestionIDs)
	if err != nil {
		return nil, err
	}

	grade := Grade(quiz, questions, answers)

	now := s.Now().UTC()
	timeTaken := in.TimeTaken
	attempt.Answers = datatypes.NewJSONType(answers)
	attempt.Score = &grade.Score
	attempt.Passed = &grade.Passed
	attempt.TimeTaken = &timeTaken
	attempt.CompletedAt = &now

	if err := s.Attempts.CompleteAttempt(ctx, attempt); err != nil {
		if errors.Is(err, util.ErrAttemptAlreadySubmitted) {
			logger.Log.Warn("Concurrent submission rejected",
				zap.String("attemptId", attempt.ID),
				zap.String("userId", userID))
		}
		return nil, err
	}

	monitoring.AttemptsSubmitted.WithLabelValues(string(quiz.QuizType), monitoring.ResultLabel(grade.Passed)).Inc()
	monitoring.AttemptScore.WithLabelValues(string(quiz.QuizType)).Observe(float64(grade.Score))
	logger.Log.Info("Quiz attempt graded",
		zap.String("attemptId", attempt.ID),
		zap.String("quizId", quiz.ID),
		zap.String("userId", userID),
		zap.Int("score", grade.Score),
		zap.Bool("passed", grade.Passed))

	return &SubmitResult{
		AttemptID:       attempt.ID,
		Score:           grade.Score,
		Passed:          grade.Passed,
		CorrectAnswers:  grade.CorrectAnswers,
		TotalQuestions:  grade.TotalQuestions,
		PassingScore:    grade.PassingScore,
		TimeTaken:       timeTaken,
		DetailedResults: grade.Visible(quiz.ShowResultsImmediately),
	}, nil
}

// History 包含未完成的尝试，测验已删除时标题和类型留空
func (s *AttemptService) History(ctx context.Context, userID string) ([]AttemptHistoryItem, error) {
	attempts, err := s.Attempts.ListAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	quizzes := make(map[string]*model.Quiz)
	items := make([]AttemptHistoryItem, len(attempts))
	for i, a := range attempts {
		quiz, seen := quizzes[a.QuizID]
		if !seen {
			quiz, err = s.Content.GetQuiz(ctx, a.QuizID)
			if err != nil && !errors.Is(err, util.ErrNotFound) {
				return nil, err
			}
			quizzes[a.QuizID] = quiz
		}

		items[i] = AttemptHistoryItem{QuizAttempt: a}
		if quiz != nil {
			items[i].QuizTitle = quiz.Title
			items[i].QuizType = quiz.QuizType
		}
	}
	return items, nil
}

// Detail 查看历史记录时总是返回完整明细，不受 showResultsImmediately 影响
func (s *AttemptService) Detail(ctx context.Context, userID, attemptID string) (*AttemptDetail, error) {
	attempt, err := s.Attempts.FindAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	if !attempt.IsCompleted {
		return nil, util.ErrAttemptNotCompleted
	}

	quiz, err := s.Content.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.Content.ListQuestionsByIDs(ctx, quiz.QuestionIDs)
	if err != nil {
		return nil, err
	}

	grade := Grade(quiz, questions, attempt.AnswerMap())
	return &AttemptDetail{
		Attempt:         *attempt,
		Quiz:            summarize(quiz),
		CorrectAnswers:  grade.CorrectAnswers,
		TotalQuestions:  grade.TotalQuestions,
		DetailedResults: grade.Details,
	}, nil
}
