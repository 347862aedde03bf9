package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/internal/application"
	"github.com/oksasatya/employee-management-api/pkg/helpers"
	"github.com/oksasatya/employee-management-api/pkg/response"
	"github.com/oksasatya/employee-management-api/pkg/validation"
)

// respondError is the single place where service errors become HTTP statuses.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var ve *application.ValidationError
	var ae *helpers.AuthError
	switch {
	case errors.As(err, &ve):
		response.Errors(c, http.StatusBadRequest, ve.Fields)
	case errors.As(err, &ae):
		response.Error(c, http.StatusUnauthorized, "Token is not valid")
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, application.ErrEmployeeNotFound):
		response.Error(c, http.StatusNotFound, "Employee not found")
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found")
	default:
		if logger != nil {
			logger.WithError(err).
				WithField("request_id", c.GetString("request_id")).
				WithField("path", c.FullPath()).
				Error("request failed")
		}
		response.Error(c, http.StatusInternalServerError, "Server error")
	}
}

// respondBindError reports payload decoding and rule violations.
func respondBindError(c *gin.Context, err error) {
	response.Errors(c, http.StatusBadRequest, validation.ToDetails(err))
}
