package handlers

import (
	"net/http"

	"github.com/anonto42/microblog/backend/internal/apperr"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// toHTTPError maps a service error onto the response status the caller sees.
func toHTTPError(c echo.Context, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logrus.WithError(err).WithField("path", c.Path()).Error("unclassified error")
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, appErr.Message)
	case apperr.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, appErr.Message)
	case apperr.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, appErr.Message)
	case apperr.KindForbidden:
		return echo.NewHTTPError(http.StatusForbidden, appErr.Message)
	default:
		logrus.WithError(err).WithField("path", c.Path()).Error("store failure")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Storage temporarily unavailable")
	}
}

// bindAndValidate decodes the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}
