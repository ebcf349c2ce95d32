package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP extracts the caller's address for rate-limit bookkeeping.
// The first X-Forwarded-For entry wins (the hosted proxy appends, never
// prepends), then X-Real-IP, then "unknown". Gin's own ClientIP is not
// used here because it consults trusted-proxy settings we don't control
// behind the managed load balancer.
func ClientIP(ctx *gin.Context) string {
	if fwd := ctx.GetHeader("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if real := ctx.GetHeader("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	return "unknown"
}
