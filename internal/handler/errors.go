package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/zizouhuweidi/qna/internal/domain"
)

const (
	msgRouteNotFound = "Route not found"
	msgInternal      = "Internal server error"
)

// StatusFor maps an error onto the status code and plain-text body sent to the client
func StatusFor(err error) (int, string) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return http.StatusUnprocessableEntity, domainErr.Error()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return http.StatusNotFound, msgRouteNotFound
		case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
			return http.StatusUnprocessableEntity, fmt.Sprint(httpErr.Message)
		case http.StatusForbidden:
			return http.StatusForbidden, fmt.Sprint(httpErr.Message)
		default:
			if httpErr.Code >= http.StatusInternalServerError {
				return httpErr.Code, msgInternal
			}
			return httpErr.Code, fmt.Sprint(httpErr.Message)
		}
	}

	return http.StatusInternalServerError, msgInternal
}

// ErrorHandler is installed as echo's HTTPErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := StatusFor(err)
	entry := logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Request().URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("unhandled request error")
	} else {
		entry.Debug("request rejected")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.String(status, message)
	}
	if err != nil {
		logrus.WithError(err).Error("failed to write error response")
	}
}
