package middleware

import (
	"strings"

	"testit_backend/internal/config"
	"testit_backend/internal/model"
	"testit_backend/internal/repository"
	"testit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 校验 Bearer JWT 并把当前用户加载进请求上下文
func AuthMiddleware(cfg *config.Config, userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(parts[1], activeSecret(cfg))
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("currentUser", user)
		c.Next()
	}
}

// activeSecret 优先取最近发布的配置快照里的 JWT 密钥，
// 热更新后新请求立即用新密钥校验
func activeSecret(cfg *config.Config) string {
	if live := config.Active(); live != nil {
		return live.JWT.Secret
	}
	return cfg.JWT.Secret
}

// TeacherMiddleware 只放行教师账号，需在 AuthMiddleware 之后使用
func TeacherMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsTeacher {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 取出 AuthMiddleware 加载的当前用户
func CurrentUser(c *gin.Context) *model.User {
	if v, exists := c.Get("currentUser"); exists {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}
