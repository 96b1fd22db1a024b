package service

import (
	"context"
	"errors"
	"fmt"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/util"
	"istqb_study_backend/pkg/keylock"
	"istqb_study_backend/pkg/logger"
	"istqb_study_backend/pkg/monitoring"
	"istqb_study_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ProgressService struct {
	Content ContentReader
	Store   ProgressStore
	Locker  keylock.Locker
	Now     func() time.Time
}

func NewProgressService(content ContentReader, store ProgressStore, locker keylock.Locker) *ProgressService {
	if locker == nil {
		locker = keylock.NewLocalLocker()
	}
	return &ProgressService{Content: content, Store: store, Locker: locker, Now: time.Now}
}

type SectionCompletion struct {
	Message                string `json:"message"`
	ProgressPercentage     int    `json:"progressPercentage"`
	SectionsCompletedCount int    `json:"sectionsCompletedCount"`
	Completed              bool   `json:"completed"`
}

type UpdateProgressInput struct {
	ProgressPercentage int     `json:"progressPercentage" binding:"min=0,max=100"`
	TimeSpent          int     `json:"timeSpent" binding:"min=0"`
	SectionID          *string `json:"sectionId"`
}

func progressKey(userID, moduleID string) string {
	return fmt.Sprintf("progress:%s:%s", userID, moduleID)
}

// withKeyLock 同一 (user, module) 的写入串行执行，保证已完成小节集合不丢失并发更新
func (s *ProgressService) withKeyLock(ctx context.Context, userID, moduleID string, fn func() error) error {
	unlock, err := s.Locker.Lock(ctx, progressKey(userID, moduleID))
	if err != nil {
		return fmt.Errorf("acquire progress lock: %w", err)
	}
	defer unlock()
	return fn()
}

// sectionPercentage 模块不存在或没有小节时视为已完成
func sectionPercentage(completed, total int) int {
	if total == 0 {
		return util.MaxPercentage
	}
	pct := util.RoundPercent(completed, total)
	if pct > util.MaxPercentage {
		pct = util.MaxPercentage
	}
	return pct
}

func (s *ProgressService) MarkSectionComplete(ctx context.Context, userID, moduleID, sectionID string) (result *SectionCompletion, err error) {
	ctx, span := tracing.StartSpan(ctx, "ProgressService.MarkSectionComplete",
		attribute.String("module.id", moduleID),
		attribute.String("section.id", sectionID))
	defer func() { tracing.EndSpan(span, err) }()

	if sectionID == "" {
		return nil, fmt.Errorf("section id is required: %w", util.ErrInvalidArgument)
	}

	// 模块有小节时只接受本模块的小节；模块不存在或没有小节时不做校验
	totalSections := 0
	module, err := s.Content.GetModule(ctx, moduleID)
	switch {
	case err == nil:
		totalSections = module.TotalSections()
		if totalSections > 0 && !module.HasSection(sectionID) {
			return nil, util.ErrSectionNotFound
		}
	case errors.Is(err, util.ErrNotFound):
		err = nil
	default:
		return nil, err
	}

	var progress *model.UserProgress
	added := false
	err = s.withKeyLock(ctx, userID, moduleID, func() error {
		var upsertErr error
		progress, upsertErr = s.Store.UpsertProgress(ctx, userID, moduleID, func(p *model.UserProgress) error {
			added = p.AddSection(sectionID)
			p.ProgressPercentage = sectionPercentage(len(p.SectionsCompleted), totalSections)
			p.Completed = p.ProgressPercentage >= util.MaxPercentage
			p.LastAccessed = s.Now().UTC()
			sid := sectionID
			p.LastSectionAccessed = &sid
			return nil
		})
		return upsertErr
	})
	if err != nil {
		return nil, err
	}

	monitoring.ProgressUpdates.WithLabelValues("section").Inc()
	if added {
		monitoring.SectionsCompleted.Inc()
	}
	logger.Log.Debug("Section marked complete",
		zap.String("userId", userID),
		zap.String("moduleId", moduleID),
		zap.String("sectionId", sectionID),
		zap.Int("progress", progress.ProgressPercentage))

	return &SectionCompletion{
		Message:                "Section marked as complete",
		ProgressPercentage:     progress.ProgressPercentage,
		SectionsCompletedCount: len(progress.SectionsCompleted),
		Completed:              progress.Completed,
	}, nil
}

// UpdateProgress 百分比按调用方传入的值保存，不根据小节数重新计算
func (s *ProgressService) UpdateProgress(ctx context.Context, userID, moduleID string, in UpdateProgressInput) (result *model.UserProgress, err error) {
	ctx, span := tracing.StartSpan(ctx, "ProgressService.UpdateProgress",
		attribute.String("module.id", moduleID),
		attribute.Int("progress", in.ProgressPercentage))
	defer func() { tracing.EndSpan(span, err) }()

	if in.ProgressPercentage < 0 || in.ProgressPercentage > util.MaxPercentage {
		return nil, util.ErrInvalidProgress
	}
	if in.TimeSpent < 0 {
		return nil, util.ErrInvalidTimeSpent
	}

	var section *string
	if in.SectionID != nil && *in.SectionID != "" {
		sid := *in.SectionID
		section = &sid
	}

	added := false
	err = s.withKeyLock(ctx, userID, moduleID, func() error {
		var upsertErr error
		result, upsertErr = s.Store.UpsertProgress(ctx, userID, moduleID, func(p *model.UserProgress) error {
			p.ProgressPercentage = in.ProgressPercentage
			p.Completed = in.ProgressPercentage >= util.MaxPercentage
			if in.TimeSpent > p.TimeSpent {
				p.TimeSpent = in.TimeSpent
			}
			added = false
			if section != nil {
				added = p.AddSection(*section)
			}
			// 与小节完成路径不同，这里未传小节时会清空最近访问的小节
			p.LastSectionAccessed = section
			p.LastAccessed = s.Now().UTC()
			return nil
		})
		return upsertErr
	})
	if err != nil {
		return nil, err
	}

	monitoring.ProgressUpdates.WithLabelValues("manual").Inc()
	if added {
		monitoring.SectionsCompleted.Inc()
	}
	return result, nil
}

func (s *ProgressService) GetProgress(ctx context.Context, userID, moduleID string) (*model.UserProgress, error) {
	return s.Store.FindProgress(ctx, userID, moduleID)
}

func (s *ProgressService) ListProgress(ctx context.Context, userID string) ([]model.UserProgress, error) {
	return s.Store.ListProgress(ctx, userID)
}
