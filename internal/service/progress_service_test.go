package service

import (
	"context"
	"fmt"
	"istqb_study_backend/internal/util"
	"istqb_study_backend/pkg/keylock"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProgressFixture() (*fakeContent, *fakeProgress, *ProgressService) {
	content := newFakeContent()
	store := newFakeProgress()
	svc := NewProgressService(content, store, keylock.NewLocalLocker())
	svc.Now = newStepClock().Now
	return content, store, svc
}

func TestMarkSectionCompleteTwoOfFour(t *testing.T) {
	content, store, svc := newProgressFixture()
	m := content.addModule("m1", 4)
	ctx := context.Background()

	res, err := svc.MarkSectionComplete(ctx, "user-1", "m1", m.Sections[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 25, res.ProgressPercentage)
	assert.Equal(t, 1, res.SectionsCompletedCount)

	res, err = svc.MarkSectionComplete(ctx, "user-1", "m1", m.Sections[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, res.ProgressPercentage)
	assert.Equal(t, 2, res.SectionsCompletedCount)
	assert.False(t, res.Completed)

	p, err := store.FindProgress(ctx, "user-1", "m1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.TimeSpent)
	require.NotNil(t, p.LastSectionAccessed)
	assert.Equal(t, m.Sections[2].ID, *p.LastSectionAccessed)
	assert.False(t, p.LastAccessed.IsZero())
}

func TestMarkSectionCompleteIsIdempotent(t *testing.T) {
	content, _, svc := newProgressFixture()
	m := content.addModule("m1", 3)
	ctx := context.Background()

	once, err := svc.MarkSectionComplete(ctx, "user-1", "m1", m.Sections[1].ID)
	require.NoError(t, err)
	twice, err := svc.MarkSectionComplete(ctx, "user-1", "m1", m.Sections[1].ID)
	require.NoError(t, err)

	assert.Equal(t, once.ProgressPercentage, twice.ProgressPercentage)
	assert.Equal(t, once.SectionsCompletedCount, twice.SectionsCompletedCount)
	assert.Equal(t, 33, twice.ProgressPercentage)
}

func TestMarkSectionCompleteWithoutSections(t *testing.T) {
	content, _, svc := newProgressFixture()
	content.addModule("empty", 0)
	ctx := context.Background()

	for _, moduleID := range []string{"empty", "unknown"} {
		res, err := svc.MarkSectionComplete(ctx, "user-1", moduleID, "s1")
		require.NoError(t, err)
		assert.Equal(t, 100, res.ProgressPercentage, moduleID)
		assert.True(t, res.Completed, moduleID)
	}
}

func TestMarkSectionCompleteAllSections(t *testing.T) {
	content, _, svc := newProgressFixture()
	m := content.addModule("m1", 3)
	ctx := context.Background()

	var res *SectionCompletion
	var err error
	for _, s := range m.Sections {
		res, err = svc.MarkSectionComplete(ctx, "user-1", "m1", s.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, res.ProgressPercentage)
	assert.True(t, res.Completed)
	assert.Equal(t, 3, res.SectionsCompletedCount)
}

func TestMarkSectionCompleteRejectsForeignSection(t *testing.T) {
	content, store, svc := newProgressFixture()
	content.addModule("m1", 3)
	other := content.addModule("m2", 2)
	ctx := context.Background()

	for _, sectionID := range []string{"stray", other.Sections[0].ID} {
		_, err := svc.MarkSectionComplete(ctx, "user-1", "m1", sectionID)
		assert.ErrorIs(t, err, util.ErrSectionNotFound, sectionID)
		assert.ErrorIs(t, err, util.ErrNotFound, sectionID)
	}

	// 拒绝的请求不会创建进度记录
	_, err := store.FindProgress(ctx, "user-1", "m1")
	assert.ErrorIs(t, err, util.ErrProgressNotFound)
}

func TestMarkSectionCompleteConcurrent(t *testing.T) {
	content, store, svc := newProgressFixture()
	m := content.addModule("m1", 20)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, s := range m.Sections {
		wg.Add(1)
		go func(sectionID string) {
			defer wg.Done()
			_, err := svc.MarkSectionComplete(ctx, "user-1", "m1", sectionID)
			assert.NoError(t, err)
		}(s.ID)
	}
	wg.Wait()

	p, err := store.FindProgress(ctx, "user-1", "m1")
	require.NoError(t, err)
	assert.Len(t, p.SectionsCompleted, 20)
	assert.Equal(t, 100, p.ProgressPercentage)
	assert.True(t, p.Completed)
}

func TestConcurrentWritesMixBothPaths(t *testing.T) {
	content, store, svc := newProgressFixture()
	m := content.addModule("m1", 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i, s := range m.Sections {
		wg.Add(1)
		go func(i int, sectionID string) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = svc.MarkSectionComplete(ctx, "user-1", "m1", sectionID)
			} else {
				_, err = svc.UpdateProgress(ctx, "user-1", "m1", UpdateProgressInput{ProgressPercentage: 10, TimeSpent: i, SectionID: &sectionID})
			}
			assert.NoError(t, err)
		}(i, s.ID)
	}
	wg.Wait()

	p, err := store.FindProgress(ctx, "user-1", "m1")
	require.NoError(t, err)
	assert.Len(t, p.SectionsCompleted, 10)
	assert.Equal(t, 9, p.TimeSpent)
}

func TestUpdateProgressTakesPercentageVerbatim(t *testing.T) {
	content, _, svc := newProgressFixture()
	m := content.addModule("m1", 4)
	ctx := context.Background()
	section := m.Sections[0].ID

	p, err := svc.UpdateProgress(ctx, "user-1", "m1", UpdateProgressInput{ProgressPercentage: 90, TimeSpent: 30, SectionID: &section})
	require.NoError(t, err)
	assert.Equal(t, 90, p.ProgressPercentage)
	assert.False(t, p.Completed)
	assert.Equal(t, 30, p.TimeSpent)
	assert.Equal(t, []string{section}, []string(p.SectionsCompleted))

	// 时间只增不减
	p, err = svc.UpdateProgress(ctx, "user-1", "m1", UpdateProgressInput{ProgressPercentage: 100, TimeSpent: 10})
	require.NoError(t, err)
	assert.Equal(t, 100, p.ProgressPercentage)
	assert.True(t, p.Completed)
	assert.Equal(t, 30, p.TimeSpent)
	assert.Len(t, p.SectionsCompleted, 1)
	assert.Nil(t, p.LastSectionAccessed)

	// 小节路径会按小节数重新计算
	res, err := svc.MarkSectionComplete(ctx, "user-1", "m1", m.Sections[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 50, res.ProgressPercentage)
}

func TestUpdateProgressValidation(t *testing.T) {
	_, _, svc := newProgressFixture()
	ctx := context.Background()

	for _, pct := range []int{-1, 101} {
		_, err := svc.UpdateProgress(ctx, "user-1", "m1", UpdateProgressInput{ProgressPercentage: pct})
		assert.ErrorIs(t, err, util.ErrInvalidProgress, fmt.Sprint(pct))
		assert.ErrorIs(t, err, util.ErrInvalidArgument)
	}

	_, err := svc.UpdateProgress(ctx, "user-1", "m1", UpdateProgressInput{ProgressPercentage: 10, TimeSpent: -5})
	assert.ErrorIs(t, err, util.ErrInvalidArgument)

	_, err = svc.MarkSectionComplete(ctx, "user-1", "m1", "")
	assert.ErrorIs(t, err, util.ErrInvalidArgument)
}

func TestProgressIsPerUserAndModule(t *testing.T) {
	content, _, svc := newProgressFixture()
	content.addModule("m1", 2)
	content.addModule("m2", 2)
	ctx := context.Background()

	_, err := svc.MarkSectionComplete(ctx, "user-1", "m1", "m1-sa")
	require.NoError(t, err)
	_, err = svc.MarkSectionComplete(ctx, "user-1", "m2", "m2-sa")
	require.NoError(t, err)
	_, err = svc.MarkSectionComplete(ctx, "user-2", "m1", "m1-sb")
	require.NoError(t, err)

	list, err := svc.ListProgress(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	p, err := svc.GetProgress(ctx, "user-2", "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1-sb"}, []string(p.SectionsCompleted))

	_, err = svc.GetProgress(ctx, "user-2", "m2")
	assert.ErrorIs(t, err, util.ErrNotFound)
}
