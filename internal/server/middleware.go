package server

import (
	"crypto/subtle"
	"strings"

	"github.com/bwmarrin/snowflake"
	obscontext "github.com/gabaoo/ping-pague-auto/internal/observability/context"
	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// requireUser resolves the tenant from the X-User-ID header. There is no
// session layer here; an API gateway in front of the service
// authenticates the caller and forwards the resolved user id.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		userID, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(userIDKey, userID)
		ctx := obscontext.WithUserID(c.Request.Context(), userID.String())
		ctx = obscontext.WithActorType(ctx, "user")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// sharedTokenGuard protects the webhook and sweep endpoints with the
// shared secret from config plus a per-address rate limit. An empty
// configured token disables the check for local development.
func (s *Server) sharedTokenGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.webhookLimiter.Allow(c.ClientIP()) {
			AbortWithError(c, ErrTooManyRequests)
			return
		}

		if s.cfg.Webhook.Token != "" {
			token := strings.TrimSpace(c.GetHeader("X-Webhook-Token"))
			if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Webhook.Token)) != 1 {
				AbortWithError(c, ErrUnauthorized)
				return
			}
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) (snowflake.ID, bool) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(snowflake.ID)
	return userID, ok
}
