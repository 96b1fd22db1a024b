package service

import (
	"context"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/pkg/logger"

	"go.uber.org/zap"
)

type ContentService struct {
	Content ContentStore
}

func NewContentService(content ContentStore) *ContentService {
	return &ContentService{Content: content}
}

type SectionReq struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

type CreateModuleReq struct {
	Title              string       `json:"title" binding:"required"`
	Description        string       `json:"description"`
	Content            string       `json:"content"`
	Order              int          `json:"order"`
	EstimatedTime      int          `json:"estimatedTime" binding:"min=0"`
	LearningObjectives []string     `json:"learningObjectives"`
	KeyConcepts        []string     `json:"keyConcepts"`
	Sections           []SectionReq `json:"sections" binding:"dive"`
}

func (s *ContentService) ListModules(ctx context.Context) ([]model.Module, error) {
	return s.Content.ListModules(ctx)
}

func (s *ContentService) GetModule(ctx context.Context, id string) (*model.Module, error) {
	return s.Content.GetModule(ctx, id)
}

// CreateModule 小节未指定顺序时按提交顺序编号
func (s *ContentService) CreateModule(ctx context.Context, req CreateModuleReq) (*model.Module, error) {
	module := &model.Module{
		Title:              req.Title,
		Description:        req.Description,
		Content:            req.Content,
		Order:              req.Order,
		EstimatedTime:      req.EstimatedTime,
		LearningObjectives: append([]string{}, req.LearningObjectives...),
		KeyConcepts:        append([]string{}, req.KeyConcepts...),
	}
	if module.Order == 0 {
		count, err := s.Content.CountModules(ctx)
		if err != nil {
			return nil, err
		}
		module.Order = int(count) + 1
	}

	for i, sec := range req.Sections {
		order := sec.Order
		if order == 0 {
			order = i + 1
		}
		module.Sections = append(module.Sections, model.Section{
			Title:   sec.Title,
			Content: sec.Content,
			Order:   order,
		})
	}

	if err := s.Content.CreateModule(ctx, module); err != nil {
		return nil, err
	}

	logger.Log.Info("Module created",
		zap.String("moduleId", module.ID),
		zap.Int("sections", len(module.Sections)))
	return module, nil
}
