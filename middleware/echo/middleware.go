// Package echomw adapts polyjson request decoding to echo.
package echomw

import (
	"github.com/labstack/echo/v4"

	"github.com/reoring/polyjson"
	"github.com/reoring/polyjson/middleware"
)

// DecodeJSON decodes the request body as T through s, stores the value in the
// request context on success, or answers with the error payload.
func DecodeJSON[T any](s *polyjson.Serializer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, status, payload := middleware.DecodeRequest[T](s, c.Request())
			if status != 0 {
				return c.JSON(status, payload)
			}
			ctx := middleware.ContextWithDecoded(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetDecoded fetches the decoded T from echo.Context.
func GetDecoded[T any](c echo.Context) (T, bool) {
	return middleware.DecodedFromContext[T](c.Request().Context())
}
