package middleware

import (
	"net/http"
	"strings"
	"time"

	"Rewards/pkg/context"
	"Rewards/pkg/jwt"
	"Rewards/pkg/log"
	"Rewards/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 剩余有效期低于该值时下发新 token
const renewBefore = 5 * time.Minute

func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "缺少 Authorization")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, http.StatusUnauthorized, "Authorization 格式错误")
			return
		}

		claims, err := jwt.ParseToken(secret, jwt.TypeAccess, parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		if claims.ExpiresAt != nil && claims.IssuedAt != nil && time.Until(claims.ExpiresAt.Time) < renewBefore {
			lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
			newToken, err := jwt.GenerateToken(secret, claims.UserID, claims.Role, jwt.TypeAccess, lifetime)
			if err == nil {
				c.Header("X-New-Access-Token", newToken)
			}
		}
		log.L.Debug("claims", zap.Uint64("user_id", claims.UserID), zap.String("role", claims.Role))
		c.Set(context.CtxUserID, claims.UserID)
		c.Set(context.CtxRole, claims.Role)

		c.Next()
	}
}

// RequireAdmin 需放在 Auth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if context.GetRole(c) != jwt.RoleAdmin {
			response.Abort(c, http.StatusForbidden, "需要管理员权限")
			return
		}
		c.Next()
	}
}
