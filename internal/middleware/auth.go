package middleware

import (
	"istqb_study_backend/internal/config"
	"istqb_study_backend/internal/model"
	"istqb_study_backend/internal/util"
	"istqb_study_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bearerToken 依次读取 Authorization 头和 ?token= 参数
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return strings.TrimSpace(header)
	}
	return c.Query(util.QueryToken)
}

// AuthMiddleware 令牌由认证服务签发，这里只校验签名并取出用户 ID 和角色
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(token, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("Rejected access token",
				zap.String("path", c.FullPath()),
				zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// RoleMiddleware 管理员可以访问所有受限接口
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	allowed := make(map[model.UserRole]struct{}, len(roles)+1)
	allowed[model.Admin] = struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if _, ok := allowed[user.Role]; !ok {
			logger.Log.Debug("Role not permitted",
				zap.String("user_id", user.UserID),
				zap.String("role", string(user.Role)))
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
