package cmd

import (
	"fmt"
	"istqb_study_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移后退出",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "数据库迁移完成")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "迁移并写入示例模块和测验（库中已有模块时跳过）",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
		if err != nil {
			return err
		}
		defer closeDB(db)

		if err := database.Migrate(db); err != nil {
			return err
		}
		if err := database.Seed(db, cfg.Quiz.DefaultPassingScore); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "示例数据写入完成")
		return nil
	},
}

func openDB(cmd *cobra.Command) (*gorm.DB, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
