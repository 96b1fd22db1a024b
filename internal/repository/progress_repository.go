package repository

import (
	"context"
	"errors"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// UpsertProgress 在事务内锁行后读改写，记录不存在时创建。
// 唯一索引冲突说明另一个写入者刚创建了记录，此时重试一次即可读到它。
func (r *ProgressRepository) UpsertProgress(ctx context.Context, userID, moduleID string, mutate func(p *model.UserProgress) error) (*model.UserProgress, error) {
	var result *model.UserProgress
	var err error
	for i := 0; i < 2; i++ {
		result, err = r.upsertOnce(ctx, userID, moduleID, mutate)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	return result, err
}

func (r *ProgressRepository) upsertOnce(ctx context.Context, userID, moduleID string, mutate func(p *model.UserProgress) error) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND module_id = ?", userID, moduleID).
			First(&progress).Error

		created := false
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = model.UserProgress{
				UserID:            userID,
				ModuleID:          moduleID,
				SectionsCompleted: []string{},
			}
			created = true
		} else if err != nil {
			return err
		}

		if err := mutate(&progress); err != nil {
			return err
		}

		if created {
			return tx.Create(&progress).Error
		}
		return tx.Save(&progress).Error
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) FindProgress(ctx context.Context, userID, moduleID string) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&progress).Error
	if err != nil {
		return nil, notFound(err, util.ErrProgressNotFound)
	}
	return &progress, nil
}

func (r *ProgressRepository) ListProgress(ctx context.Context, userID string) ([]model.UserProgress, error) {
	var list []model.UserProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed desc").
		Find(&list).Error
	return list, err
}
