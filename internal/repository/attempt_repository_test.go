package repository

import (
	"context"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newAttempt(userID, quizID string, startedAt time.Time) *model.QuizAttempt {
	return &model.QuizAttempt{
		UserID:    userID,
		QuizID:    quizID,
		Answers:   datatypes.NewJSONType(model.AttemptAnswers{}),
		StartedAt: startedAt,
	}
}

func TestFindLatestPendingAttempt(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	older := newAttempt("u1", "quiz", base)
	newer := newAttempt("u1", "quiz", base.Add(time.Minute))
	other := newAttempt("u2", "quiz", base.Add(time.Hour))
	for _, a := range []*model.QuizAttempt{older, newer, other} {
		require.NoError(t, repo.CreateAttempt(ctx, a))
	}

	got, err := repo.FindLatestPendingAttempt(ctx, "u1", "quiz")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	_, err = repo.FindLatestPendingAttempt(ctx, "u1", "another-quiz")
	assert.ErrorIs(t, err, util.ErrNoPendingAttempt)

	count, err := repo.CountPendingAttempts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestCompleteAttemptOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	ctx := context.Background()
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	attempt := newAttempt("u1", "quiz", started)
	require.NoError(t, repo.CreateAttempt(ctx, attempt))

	score, passed, taken := 80, true, 120
	completed := started.Add(2 * time.Minute)
	attempt.Answers = datatypes.NewJSONType(model.AttemptAnswers{"q1": "a"})
	attempt.Score = &score
	attempt.Passed = &passed
	attempt.TimeTaken = &taken
	attempt.CompletedAt = &completed
	require.NoError(t, repo.CompleteAttempt(ctx, attempt))
	assert.True(t, attempt.IsCompleted)

	stored, err := repo.FindAttempt(ctx, attempt.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 80, *stored.Score)
	assert.Equal(t, "a", stored.AnswerMap()["q1"])

	// 第二次提交不会覆盖已保存的结果
	lower := 10
	attempt.Score = &lower
	err = repo.CompleteAttempt(ctx, attempt)
	assert.ErrorIs(t, err, util.ErrAttemptAlreadySubmitted)

	stored, err = repo.FindAttempt(ctx, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, *stored.Score)

	_, err = repo.FindLatestPendingAttempt(ctx, "u1", "quiz")
	assert.ErrorIs(t, err, util.ErrNoPendingAttempt)

	_, err = repo.FindAttempt(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}

func TestListAttemptsByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewAttemptRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateAttempt(ctx, newAttempt("u1", "quiz", base.Add(time.Duration(i)*time.Hour))))
	}
	require.NoError(t, repo.CreateAttempt(ctx, newAttempt("u2", "quiz", base)))

	list, err := repo.ListAttemptsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].StartedAt.After(list[1].StartedAt))
	assert.True(t, list[1].StartedAt.After(list[2].StartedAt))
}
