package cmd

import (
	"fmt"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/util"

	"github.com/spf13/cobra"
)

// tokenCmd 签发本地调试用的访问令牌
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "签发开发用 JWT",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		userID, _ := cmd.Flags().GetString("user")
		role, _ := cmd.Flags().GetString("role")
		expire, _ := cmd.Flags().GetDuration("expire")

		if userID == "" {
			return fmt.Errorf("--user is required")
		}
		if !model.UserRole(role).Valid() {
			return fmt.Errorf("unsupported role: %q", role)
		}
		if expire <= 0 {
			expire = cfg.JWT.ExpireTime
		}

		token, err := util.GenerateJWT(userID, model.UserRole(role), cfg.JWT.Secret, expire)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("user", "", "用户ID")
	tokenCmd.Flags().String("role", string(model.Student), "角色：student 或 admin")
	tokenCmd.Flags().Duration("expire", 0, "有效期，默认使用 jwt.expire_hours")
}
