package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/pkg/response"
	"github.com/oksasatya/devconnector/pkg/validation"
)

func invalidPayload(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// unexpected answers errors that no endpoint-specific case handled.
func unexpected(c *gin.Context, logger *logrus.Logger, err error) {
	if errors.Is(err, application.ErrConflict) {
		response.Error(c, http.StatusConflict, "Resource was modified concurrently, please retry", nil)
		return
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.ServerError(c)
}
