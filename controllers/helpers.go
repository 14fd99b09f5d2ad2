package controllers

import (
	"net/http"

	"review-management-api/services"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error kind to an HTTP status and renders the
// machine-checkable kind next to the message.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindValidation, services.KindOutOfRange, services.KindInvalidRubricLevel:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindConflict:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  string(services.KindOf(err)),
	})
}

func currentUserID(c *gin.Context) int {
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}

func currentRoleID(c *gin.Context) int {
	if v, exists := c.Get("roleID"); exists {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}
