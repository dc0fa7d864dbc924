package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/event-hotel-booking/internal/service"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPErrorHandler renders errors returned by handlers.  Rule violations
// keep their message and map to their kind's status; anything unknown is a
// logged 500 whose details stay out of the response.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
		var he *echo.HTTPError
		if se, ok := service.AsError(err); ok {
			code, message = se.Kind.HTTPStatus(), se.Message
		} else if errors.Is(err, service.ErrRoomBusy) {
			code, message = http.StatusServiceUnavailable, service.ErrRoomBusy.Error()
			c.Response().Header().Set("Retry-After", "1")
		} else if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable {
			log.Error("request failed",
				zap.Int("status", code),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ErrorResponse{Error: message})
		}
		if err != nil {
			log.Error("error response not sent", zap.Error(err))
		}
	}
}
