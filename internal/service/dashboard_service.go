package service

import (
	"context"
	"istqb_study_backend/internal/util"
)

type DashboardService struct {
	Content ContentReader
	Queries DashboardQueries
}

func NewDashboardService(content ContentReader, queries DashboardQueries) *DashboardService {
	return &DashboardService{Content: content, Queries: queries}
}

type DashboardStats struct {
	TotalModules         int64   `json:"totalModules"`
	CompletedModules     int64   `json:"completedModules"`
	TotalTimeSpent       int64   `json:"totalTimeSpent"`
	CompletionPercentage float64 `json:"completionPercentage"`
	QuizzesCompleted     int64   `json:"quizzesCompleted"`
	QuizzesPassed        int64   `json:"quizzesPassed"`
	AverageScore         float64 `json:"averageScore"`
}

func (s *DashboardService) Stats(ctx context.Context, userID string) (*DashboardStats, error) {
	total, err := s.Content.CountModules(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.Queries.ProgressSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.Queries.AttemptSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalModules:     total,
		CompletedModules: progress.CompletedModules,
		TotalTimeSpent:   progress.TotalTimeSpent,
		QuizzesCompleted: attempts.Completed,
		QuizzesPassed:    attempts.Passed,
		AverageScore:     util.RoundTo(attempts.AverageScore, 1),
	}
	if total > 0 {
		stats.CompletionPercentage = util.RoundTo(float64(progress.CompletedModules)/float64(total)*100, 1)
	}
	return stats, nil
}
