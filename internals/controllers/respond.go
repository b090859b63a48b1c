package controllers

import (
	"errors"
	"net/http"

	"university-library/internals/service"
	logger "university-library/loggers"

	"github.com/gin-gonic/gin"
)

// All handlers answer with the same envelope: {"success": bool, "error"?: string, ...}.
// Nothing propagates past the controller boundary uncaught.

func respondOK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "something went wrong"

	switch {
	case errors.Is(err, service.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrConflict):
		status, message = http.StatusConflict, "already exists"
	case errors.Is(err, service.ErrRateLimited):
		status, message = http.StatusTooManyRequests, "too many requests, slow down"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, service.ErrConcurrencyConflict):
		status, message = http.StatusConflict, "book is no longer available"
	case errors.Is(err, service.ErrTransient):
		status, message = http.StatusServiceUnavailable, "temporary failure, please retry"
	default:
		if ne, ok := service.IsNotEligible(err); ok {
			status, message = http.StatusForbidden, ne.Reason
		} else {
			logger.Logger.Error("unhandled error: ", err)
		}
	}

	c.JSON(status, gin.H{"success": false, "error": message})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
}
