package errors

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// CustomHTTPErrorHandler maps domain errors wrapping an HttpError to the
// matching status code. Everything else falls through as a 500.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	var httpErr HttpError
	if errors.As(err, &httpErr) {
		err = echo.NewHTTPError(httpErr.Code, err.Error())
	}
	c.Echo().DefaultHTTPErrorHandler(err, c)
}
