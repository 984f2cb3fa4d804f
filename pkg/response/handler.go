package response

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/pkg/apperr"
)

// Fail logs a failed handler call (Warn for client errors, Error for server
// errors) and converts err for the echo error handler.
func Fail(l *slog.Logger, event string, err error) *echo.HTTPError {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", "internal error", "error", err)
	} else {
		l.Warn(event, "status", status, "reason", apperr.Message(err), "error", err)
	}
	return FromError(err)
}

// Bind decodes the request body into req and runs the registered validator.
func Bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid body", apperr.ErrValidation)
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
