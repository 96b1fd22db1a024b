package repository

import (
	"context"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRepositoryModules(t *testing.T) {
	db := newTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	second := createModule(t, db, "Second", 2, "s-a", "s-b")
	first := createModule(t, db, "First", 1, "f-a", "f-b", "f-c")

	modules, err := repo.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, first.ID, modules[0].ID)
	assert.Equal(t, second.ID, modules[1].ID)

	got, err := repo.GetModule(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.TotalSections())
	// 小节按 order 升序
	assert.Equal(t, "f-c", got.Sections[0].Title)
	assert.Equal(t, "f-a", got.Sections[2].Title)

	count, err := repo.CountModules(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	_, err = repo.GetModule(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrModuleNotFound)
}

func TestListQuestionsByIDsKeepsOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()
	m := createModule(t, db, "M", 1)

	var ids []string
	for _, text := range []string{"q1", "q2", "q3"} {
		q := &model.Question{ModuleID: m.ID, Text: text, Options: []model.Option{
			{ID: "a", Text: "A", IsCorrect: true},
			{ID: "b", Text: "B"},
		}}
		require.NoError(t, db.Create(q).Error)
		ids = append(ids, q.ID)
	}

	got, err := repo.ListQuestionsByIDs(ctx, []string{ids[2], "missing", ids[0]})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "q3", got[0].Text)
	assert.Equal(t, "q1", got[1].Text)
	assert.Equal(t, "a", got[1].CorrectOption().ID)

	empty, err := repo.ListQuestionsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = repo.GetQuestion(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestListQuizzesByModule(t *testing.T) {
	db := newTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()
	m := createModule(t, db, "M", 1)

	require.NoError(t, db.Create(&model.Quiz{Title: "practice", ModuleID: &m.ID, QuizType: model.QuizPractice}).Error)
	require.NoError(t, db.Create(&model.Quiz{Title: "final", QuizType: model.QuizFinalExam}).Error)

	all, err := repo.ListQuizzes(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := repo.ListQuizzes(ctx, m.ID, "")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "practice", scoped[0].Title)

	finals, err := repo.ListQuizzes(ctx, "", model.QuizFinalExam)
	require.NoError(t, err)
	require.Len(t, finals, 1)
	assert.Equal(t, "final", finals[0].Title)

	none, err := repo.ListQuizzes(ctx, m.ID, model.QuizFinalExam)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.GetQuiz(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
}

func TestQuizKeepsZeroPassingScore(t *testing.T) {
	db := newTestDB(t)
	repo := NewContentRepository(db)

	quiz := &model.Quiz{Title: "warm-up", QuizType: model.QuizPractice, PassingScore: 0}
	require.NoError(t, db.Create(quiz).Error)

	got, err := repo.GetQuiz(context.Background(), quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.PassingScore)
}
