package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"activity_hub/internal/apperr"
	"activity_hub/internal/middleware"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondError maps err onto its status. Internal failures are logged with
// their cause and reported to the client without it.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	log := middleware.Logger(c).WithField("status", status)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		msg = "internal server error"
		var e *apperr.Error
		if errors.As(err, &e) {
			msg = e.Msg
		}
	} else {
		log.WithError(err).Info("request rejected")
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.Validation("invalid request body: %v", err))
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, apperr.Validation("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(c, apperr.Validation("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}
