package database

import (
	"istqb_study_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func TestSeed(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, Seed(db, 65))

	var modules []model.Module
	require.NoError(t, db.Preload("Sections").Order("sort_order").Find(&modules).Error)
	require.Len(t, modules, len(seedModules))
	for i, m := range modules {
		assert.Equal(t, i+1, m.Order)
		assert.NotEmpty(t, m.Sections, m.Title)
	}

	var questions []model.Question
	require.NoError(t, db.Find(&questions).Error)
	for _, q := range questions {
		require.NotNil(t, q.CorrectOption(), q.Text)
	}

	var quizzes []model.Quiz
	require.NoError(t, db.Find(&quizzes).Error)
	require.Len(t, quizzes, len(seedModules)+1)

	var finals int
	for _, q := range quizzes {
		assert.Equal(t, 65, q.PassingScore)
		if q.QuizType == model.QuizFinalExam {
			finals++
			assert.Nil(t, q.ModuleID)
			assert.False(t, q.ShowResultsImmediately)
			assert.Len(t, q.QuestionIDs, len(questions))
		} else {
			assert.NotNil(t, q.ModuleID)
			assert.True(t, q.ShowResultsImmediately)
		}
	}
	assert.Equal(t, 1, finals)

	// 再次执行不会重复写入
	require.NoError(t, Seed(db, 65))
	var count int64
	require.NoError(t, db.Model(&model.Quiz{}).Count(&count).Error)
	assert.EqualValues(t, len(seedModules)+1, count)
}

func TestSeedKeepsZeroPassingScore(t *testing.T) {
	db := openMemoryDB(t)
	require.NoError(t, Seed(db, 0))

	var quizzes []model.Quiz
	require.NoError(t, db.Find(&quizzes).Error)
	require.NotEmpty(t, quizzes)
	for _, q := range quizzes {
		assert.Equal(t, 0, q.PassingScore, q.Title)
	}
}
