package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roma7-7-7/lawhelp-bot/internal/dal"
)

type ErrorResponse struct {
	Message string `json:"error"`
}

var (
	InternalServerError = ErrorResponse{"Internal server error"} //nolint:gochecknoglobals // this is a constant response for internal server error
	BadRequestError     = ErrorResponse{"Bad request"}           //nolint:gochecknoglobals // this is a constant response for bad request
	UnauthorizedError   = ErrorResponse{"Unauthorized"}          //nolint:gochecknoglobals // this is a constant response for unauthorized access
	ForbiddenError      = ErrorResponse{"Admin only"}            //nolint:gochecknoglobals // this is a constant response for role violations
)

func HTTPErrorHandler(log *slog.Logger) func(err error, c echo.Context) {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := http.StatusInternalServerError, InternalServerError.Message
		var echoError *echo.HTTPError
		if errors.As(err, &echoError) {
			code = echoError.Code
			if msg, ok := echoError.Message.(string); ok && msg != "" && code != http.StatusInternalServerError {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError {
			log.ErrorContext(c.Request().Context(), "failed to process request", "error", err)
		} else {
			log.DebugContext(c.Request().Context(), "request rejected", "status", code, "error", err)
		}

		var wErr error
		if c.Request().Method == http.MethodHead {
			wErr = c.NoContent(code)
		} else {
			wErr = c.JSON(code, ErrorResponse{Message: message})
		}
		if wErr != nil {
			log.ErrorContext(c.Request().Context(), "failed to write error response", "error", wErr)
		}
	}
}

// storeError maps repository errors to HTTP errors; anything unknown is left
// for the error handler to report as 500.
func storeError(err error) error {
	switch {
	case errors.Is(err, dal.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found").SetInternal(err)
	case errors.Is(err, dal.ErrUserExists):
		return echo.NewHTTPError(http.StatusBadRequest, "User exists").SetInternal(err)
	case errors.Is(err, dal.ErrInvalidFilename):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid file name").SetInternal(err)
	default:
		return err
	}
}
