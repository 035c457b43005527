package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	supler "github.com/reoring/supler"
	"github.com/reoring/supler/middleware"
)

// Loader binds the object addressed by a request to its form.
type Loader[T any] func(c echo.Context) (*supler.FormWithObject[T], error)

// Handle processes the request body against the loaded form and responds
// with the resulting document, or with an error payload.
func Handle[T any](load Loader[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := run(c, load)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, data)
	}
}

// Process runs the round trip, stores the result in the request context and
// calls next; failures respond with an error payload.
func Process[T any](load Loader[T]) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data, err := run(c, load)
			if err != nil {
				return fail(c, err)
			}
			ctx := middleware.ContextWithData(c.Request().Context(), data)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetData fetches the result stored by Process.
func GetData(c echo.Context) (supler.Data, bool) {
	return middleware.DataFromContext(c.Request().Context())
}

func run[T any](c echo.Context, load Loader[T]) (supler.Data, error) {
	fwo, err := load(c)
	if err != nil {
		return nil, err
	}
	return middleware.Run(c.Request().Context(), fwo, c.Request().Body)
}

func fail(c echo.Context, err error) error {
	middleware.LogFailure(c.Request().Context(), err)
	return c.JSON(middleware.Status(err), middleware.ErrorPayload(err))
}
