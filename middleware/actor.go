package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ActorHeader names the caller as resolved by the upstream session layer.
const ActorHeader = "X-Actor-ID"

// ActorMiddleware copies the caller identity into the context as "actor".
// An actor set by an earlier middleware wins.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get("actor"); !ok {
			if actor := strings.TrimSpace(c.GetHeader(ActorHeader)); actor != "" {
				c.Set("actor", actor)
			}
		}
		c.Next()
	}
}
