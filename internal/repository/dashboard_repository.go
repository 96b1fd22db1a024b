package repository

import (
	"context"
	"istqb_study_backend/internal/model"

	"gorm.io/gorm"
)

type DashboardRepository struct {
	DB *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{DB: db}
}

type ProgressSummary struct {
	CompletedModules int64
	TotalTimeSpent   int64
}

type AttemptSummary struct {
	Completed    int64
	Passed       int64
	AverageScore float64
}

func (r *DashboardRepository) ProgressSummary(ctx context.Context, userID string) (*ProgressSummary, error) {
	var row struct {
		Completed int64
		TimeSpent int64
	}
	err := r.DB.WithContext(ctx).
		Model(&model.UserProgress{}).
		Select("COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed, COALESCE(SUM(time_spent), 0) AS time_spent").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &ProgressSummary{CompletedModules: row.Completed, TotalTimeSpent: row.TimeSpent}, nil
}

func (r *DashboardRepository) AttemptSummary(ctx context.Context, userID string) (*AttemptSummary, error) {
	var row struct {
		Completed int64
		Passed    int64
		AvgScore  float64
	}
	err := r.DB.WithContext(ctx).
		Model(&model.QuizAttempt{}).
		Select("COUNT(*) AS completed, COALESCE(SUM(CASE WHEN passed THEN 1 ELSE 0 END), 0) AS passed, COALESCE(AVG(score), 0) AS avg_score").
		Where("user_id = ? AND is_completed = ?", userID, true).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &AttemptSummary{Completed: row.Completed, Passed: row.Passed, AverageScore: row.AvgScore}, nil
}
