package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// JSONBodyLimit creates a Gin middleware handler that caps JSON request body
// size. Reads past the limit fail inside the handler's bind call, which
// surfaces as a request error rather than unbounded memory growth. Multipart
// requests are exempt; the upload handler applies its own larger cap.
func JSONBodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.ContentType(), "multipart/") {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
