package repository

import (
	"context"
	"errors"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/util"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func orderedSections(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order asc")
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func (r *ContentRepository) GetModule(ctx context.Context, id string) (*model.Module, error) {
	var m model.Module
	err := r.DB.WithContext(ctx).
		Preload("Sections", orderedSections).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, util.ErrModuleNotFound)
	}
	return &m, nil
}

func (r *ContentRepository) ListModules(ctx context.Context) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.WithContext(ctx).
		Preload("Sections", orderedSections).
		Order("sort_order asc, created_at asc").
		Find(&modules).Error
	return modules, err
}

func (r *ContentRepository) CountModules(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Module{}).Count(&count).Error
	return count, err
}

// CreateModule 模块和小节在同一事务中写入
func (r *ContentRepository) CreateModule(ctx context.Context, m *model.Module) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *ContentRepository) GetQuestion(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	if err := r.DB.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, notFound(err, util.ErrQuestionNotFound)
	}
	return &q, nil
}

// ListQuestionsByIDs 按 ids 的顺序返回，不存在的 id 直接跳过
func (r *ContentRepository) ListQuestionsByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	if len(ids) == 0 {
		return []model.Question{}, nil
	}

	var found []model.Question
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]model.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}

	result := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			result = append(result, q)
		}
	}
	return result, nil
}

func (r *ContentRepository) GetQuiz(ctx context.Context, id string) (*model.Quiz, error) {
	var q model.Quiz
	if err := r.DB.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	return &q, nil
}

// ListQuizzes 过滤条件为空时不生效
func (r *ContentRepository) ListQuizzes(ctx context.Context, moduleID string, quizType model.QuizType) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	query := r.DB.WithContext(ctx).Model(&model.Quiz{})
	if moduleID != "" {
		query = query.Where("module_id = ?", moduleID)
	}
	if quizType != "" {
		query = query.Where("quiz_type = ?", quizType)
	}
	err := query.Order("created_at asc").Find(&quizzes).Error
	return quizzes, err
}
