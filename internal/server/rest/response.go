package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/golfcoachpro/backend/internal/common"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, common.ErrorFileTooLarge):
		return http.StatusRequestEntityTooLarge, "file_too_large"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// respondError maps service sentinels to HTTP statuses. Validation errors
// keep their message (it is written for clients); everything else gets a
// generic one so internals do not leak.
func respondError(c *gin.Context, err error) {
	status, code := statusFromError(err)

	message := http.StatusText(status)
	if status == http.StatusBadRequest {
		message = strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
	}

	c.AbortWithStatusJSON(status, errorBody{Error: code, Message: message})
}

// respondBindingError reports gin binding failures as 400 with the raw
// binding message in details.
func respondBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{
		Error:   "validation_error",
		Message: "invalid request body",
		Details: err.Error(),
	})
}
