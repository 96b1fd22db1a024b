package repository

import (
	"context"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/util"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) CreateAttempt(ctx context.Context, attempt *model.QuizAttempt) error {
	return r.DB.WithContext(ctx).Create(attempt).Error
}

func (r *AttemptRepository) FindAttempt(ctx context.Context, id string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.DB.WithContext(ctx).First(&attempt, "id = ?", id).Error; err != nil {
		return nil, notFound(err, util.ErrAttemptNotFound)
	}
	return &attempt, nil
}

// FindLatestPendingAttempt 同一用户同一测验可能有多个未提交的尝试，取最近开始的
func (r *AttemptRepository) FindLatestPendingAttempt(ctx context.Context, userID, quizID string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ? AND is_completed = ?", userID, quizID, false).
		Order("started_at desc, created_at desc").
		First(&attempt).Error
	if err != nil {
		return nil, notFound(err, util.ErrNoPendingAttempt)
	}
	return &attempt, nil
}

// CompleteAttempt 条件更新，只有仍未完成的尝试会被写入；并发提交中落后的一方得到 ErrAttemptAlreadySubmitted
func (r *AttemptRepository) CompleteAttempt(ctx context.Context, attempt *model.QuizAttempt) error {
	result := r.DB.WithContext(ctx).
		Model(&model.QuizAttempt{}).
		Where("id = ? AND is_completed = ?", attempt.ID, false).
		Updates(map[string]interface{}{
			"answers":      attempt.Answers,
			"score":        attempt.Score,
			"passed":       attempt.Passed,
			"time_taken":   attempt.TimeTaken,
			"completed_at": attempt.CompletedAt,
			"is_completed": true,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrAttemptAlreadySubmitted
	}
	attempt.IsCompleted = true
	return nil
}

// ListAttemptsByUser 包含未完成的尝试，按开始时间倒序
func (r *AttemptRepository) ListAttemptsByUser(ctx context.Context, userID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at desc, created_at desc").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CountPendingAttempts(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.QuizAttempt{}).
		Where("is_completed = ?", false).
		Count(&count).Error
	return count, err
}
