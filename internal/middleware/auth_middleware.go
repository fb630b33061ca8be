package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	autherrors "go-kintai/internal/auth/errors"
	"go-kintai/internal/shared/contextutil"
	"go-kintai/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	ContextActorID   = "actor_id"
	ContextActorName = "actor_name"
	ContextRole      = "role"
)

// AuthMiddleware validates the bearer token (or access_token cookie) and
// stores the caller as a contextutil.Actor on the request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		actorID, _ := claims["sub"].(string)
		name, _ := claims["name"].(string)
		role, _ := claims["role"].(string)
		if actorID == "" || role == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Actor not found in token", nil)
			c.Abort()
			return
		}

		actor := contextutil.Actor{ID: actorID, Name: name, Role: role}
		c.Set(ContextActorID, actorID)
		c.Set(ContextActorName, name)
		c.Set(ContextRole, role)
		ctx := contextutil.WithActor(c.Request.Context(), actor)
		ctx = contextutil.WithLoggerFields(ctx, zap.String("actor_id", actorID), zap.String("role", role))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.Error(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message, nil)
		c.Abort()
	}
}
