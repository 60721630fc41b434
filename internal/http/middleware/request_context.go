package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mongoarchitect-backend/internal/platform/ctxutil"
)

// headerOwner names the owner; an upstream gateway is expected to set it.
const headerOwner = "X-User-ID"

func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := strings.TrimSpace(c.GetHeader(headerOwner))
		if owner == "" {
			owner = ctxutil.AnonymousOwner
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{OwnerID: owner})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
