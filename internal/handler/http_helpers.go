package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/softysite/internal/service"
)

const internalErrorMessage = "Internal server error"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// parseIDParam only accepts positive integers that fit a SQLite rowid.
func parseIDParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 63)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// respondValidation answers 400 with the message carried by a
// service.ValidationError, falling back to fallback otherwise.
func respondValidation(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) && verr.Message != "" {
		respondError(c, http.StatusBadRequest, verr.Message)
		return
	}
	respondError(c, http.StatusBadRequest, fallback)
}

func (a *API) respondInternal(c *gin.Context, err error) {
	a.logger.Error("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	respondError(c, http.StatusInternalServerError, internalErrorMessage)
}
