package service

import (
	"context"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/repository"
)

// ContentReader 内容只读接口，由 gorm 仓库或带缓存的仓库实现
type ContentReader interface {
	GetModule(ctx context.Context, id string) (*model.Module, error)
	ListModules(ctx context.Context) ([]model.Module, error)
	CountModules(ctx context.Context) (int64, error)
	GetQuestion(ctx context.Context, id string) (*model.Question, error)
	ListQuestionsByIDs(ctx context.Context, ids []string) ([]model.Question, error)
	GetQuiz(ctx context.Context, id string) (*model.Quiz, error)
	ListQuizzes(ctx context.Context, moduleID string, quizType model.QuizType) ([]model.Quiz, error)
}

type ContentStore interface {
	ContentReader
	CreateModule(ctx context.Context, m *model.Module) error
}

type AttemptStore interface {
	CreateAttempt(ctx context.Context, attempt *model.QuizAttempt) error
	FindAttempt(ctx context.Context, id string) (*model.QuizAttempt, error)
	FindLatestPendingAttempt(ctx context.Context, userID, quizID string) (*model.QuizAttempt, error)
	CompleteAttempt(ctx context.Context, attempt *model.QuizAttempt) error
	ListAttemptsByUser(ctx context.Context, userID string) ([]model.QuizAttempt, error)
}

// ProgressStore UpsertProgress 对同一 (user, module) 的读改写必须在一个事务里完成
type ProgressStore interface {
	UpsertProgress(ctx context.Context, userID, moduleID string, mutate func(p *model.UserProgress) error) (*model.UserProgress, error)
	FindProgress(ctx context.Context, userID, moduleID string) (*model.UserProgress, error)
	ListProgress(ctx context.Context, userID string) ([]model.UserProgress, error)
}

type DashboardQueries interface {
	ProgressSummary(ctx context.Context, userID string) (*repository.ProgressSummary, error)
	AttemptSummary(ctx context.Context, userID string) (*repository.AttemptSummary, error)
}
