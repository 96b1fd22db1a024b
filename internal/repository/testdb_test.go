package repository

import (
	"fmt"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/pkg/database"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createModule(t *testing.T, db *gorm.DB, title string, order int, sections ...string) *model.Module {
	t.Helper()
	m := &model.Module{Title: title, Order: order}
	for i, s := range sections {
		m.Sections = append(m.Sections, model.Section{Title: s, Order: len(sections) - i})
	}
	require.NoError(t, db.Create(m).Error)
	return m
}
