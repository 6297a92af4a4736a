package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

type actorKey struct{}

// ActorHeader is where the session layer puts the authenticated identity.
// Authentication itself happens upstream; this middleware only carries the
// identity into the request context for createdBy/completedBy stamping.
const ActorHeader = "X-Actor"

const defaultActor = "system"

func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(ActorHeader)
		if actor == "" {
			actor = defaultActor
		}

		ctx := context.WithValue(c.Request.Context(), actorKey{}, actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ActorFrom returns the actor identity carried by ctx, defaulting to "system".
func ActorFrom(ctx context.Context) string {
	actor, ok := ctx.Value(actorKey{}).(string)
	if !ok || actor == "" {
		return defaultActor
	}
	return actor
}
