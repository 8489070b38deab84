package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fitlife/challenge-api/internal/service"
)

// respond writes the uniform {message, <dataKey>: data} envelope. With an
// empty dataKey only the message is sent.
func respond(c *gin.Context, status int, message string, dataKey string, data interface{}) {
	body := gin.H{"message": message}
	if dataKey != "" {
		body[dataKey] = data
	}
	c.JSON(status, body)
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"message": message})
}

// respondServiceError maps a service error kind to an HTTP status exactly
// once, here. Handlers pass every service failure through this function so
// no layer downgrades a typed error into a generic one.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrAlreadyJoined),
		errors.Is(err, service.ErrPlanTitleTaken),
		errors.Is(err, service.ErrSplitNameTaken):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrChallengeNotFound),
		errors.Is(err, service.ErrParticipantNotFound),
		errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrSplitNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrNoImage):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotJoined),
		errors.Is(err, service.ErrNoParticipants),
		errors.Is(err, service.ErrNoChallengesFound),
		errors.Is(err, service.ErrInvalidProgress),
		errors.Is(err, service.ErrInvalidSets):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: unhandled service error: %v", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// paramUint parses a numeric path parameter.
func paramUint(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(value), true
}

// pagination reads page/limit query parameters with sane defaults.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
