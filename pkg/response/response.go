package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/logging"
)

// Envelope wraps every payload returned by the API.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result"`
}

func OK(c echo.Context, message string, result any) error {
	return c.JSON(http.StatusOK, Envelope{Message: message, Result: result})
}

func Created(c echo.Context, message string, result any) error {
	return c.JSON(http.StatusCreated, Envelope{Message: message, Result: result})
}

// FromError converts a service error into an *echo.HTTPError carrying the
// mapped status and client message.
func FromError(err error) *echo.HTTPError {
	return echo.NewHTTPError(apperr.Status(err), apperr.Message(err))
}

// ErrorHandler renders errors in the envelope format. Install it as
// echo.Echo.HTTPErrorHandler.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
	default:
		code = apperr.Status(err)
		msg = apperr.Message(err)
	}

	if code >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", code, "error", err)
	}

	env := Envelope{Code: code, Message: msg}
	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, env)
	}
	if writeErr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response_failed", "error", writeErr)
	}
}
