package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	supler "github.com/reoring/supler"
	"github.com/reoring/supler/middleware"
)

// Loader binds the object addressed by a request to its form.
type Loader[T any] func(c *gin.Context) (*supler.FormWithObject[T], error)

// Handle processes the request body against the loaded form and responds
// with the resulting document, or with an error payload.
func Handle[T any](load Loader[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := run(c, load)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, data)
	}
}

// Process runs the round trip, stores the result in the request context and
// hands over to the next handler; failures abort with an error payload.
func Process[T any](load Loader[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := run(c, load)
		if !ok {
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithData(c.Request.Context(), data))
		c.Next()
	}
}

// GetData fetches the result stored by Process.
func GetData(c *gin.Context) (supler.Data, bool) {
	return middleware.DataFromContext(c.Request.Context())
}

func run[T any](c *gin.Context, load Loader[T]) (supler.Data, bool) {
	ctx := c.Request.Context()
	fwo, err := load(c)
	if err == nil {
		var data supler.Data
		if data, err = middleware.Run(ctx, fwo, c.Request.Body); err == nil {
			return data, true
		}
	}
	middleware.LogFailure(ctx, err)
	c.JSON(middleware.Status(err), middleware.ErrorPayload(err))
	c.Abort()
	return nil, false
}
