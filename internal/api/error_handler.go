package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/actor"
	"github.com/Buffden/Event-Management-System-sub004/internal/domain/event"
	"github.com/Buffden/Event-Management-System-sub004/internal/pkg/logger"
)

// Machine-readable error codes.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidState    = "INVALID_STATE"
	CodeVenueConflict   = "VENUE_CONFLICT"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     int    `json:"code"`
	CodeName string `json:"code_name"`
}

// Classify maps an error to its HTTP status, code name and client message.
// Errors outside the domain taxonomy become a generic 500.
func Classify(err error) (int, string, string) {
	var (
		be *echo.BindingError
		he *echo.HTTPError
	)
	switch {
	case errors.As(err, &be):
		return http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid parameter %s: %v", be.Field, be.Message)
	case errors.As(err, &he):
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, codeForStatus(he.Code), msg
	case errors.Is(err, actor.ErrMissingToken), errors.Is(err, actor.ErrInvalidToken):
		return http.StatusUnauthorized, CodeUnauthenticated, err.Error()
	case errors.Is(err, event.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, event.ErrUnauthorized):
		return http.StatusForbidden, CodeForbidden, err.Error()
	case errors.Is(err, event.ErrValidation):
		return http.StatusBadRequest, CodeValidation, err.Error()
	case errors.Is(err, event.ErrConflict):
		return http.StatusConflict, CodeVenueConflict, err.Error()
	case errors.Is(err, event.ErrInvalidState):
		return http.StatusConflict, CodeInvalidState, err.Error()
	default:
		return http.StatusInternalServerError, CodeInternal, "internal server error"
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeInvalidState
	}
	if status >= 500 {
		return CodeInternal
	}
	return http.StatusText(status)
}

// CustomHTTPErrorHandler renders errors returned by handlers and middleware.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, name, message := Classify(err)
	if code >= 500 {
		logger.Error("server error",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Error: message, Code: code, CodeName: name})
	}
	if err != nil {
		logger.Error("failed to send error response", zap.Error(err))
	}
}
