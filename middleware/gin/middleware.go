// Package ginmw adapts polyjson request decoding to gin.
package ginmw

import (
	"github.com/gin-gonic/gin"

	"github.com/reoring/polyjson"
	"github.com/reoring/polyjson/middleware"
)

// DecodeJSON decodes the request body as T through s, stores the value in the
// request context, and aborts with the error payload when decoding fails.
func DecodeJSON[T any](s *polyjson.Serializer) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, status, payload := middleware.DecodeRequest[T](s, c.Request)
		if status != 0 {
			c.AbortWithStatusJSON(status, payload)
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), v))
		c.Next()
	}
}

// GetDecoded fetches the decoded T from gin.Context.
func GetDecoded[T any](c *gin.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request.Context())
}
