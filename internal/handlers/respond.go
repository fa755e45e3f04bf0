package handlers

import (
	"errors"
	"net/http"

	"mechseva/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service-layer errors onto the API envelope. Anything
// not recognised becomes a 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		utils.ErrorResponseWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", map[string]string{
			verr.Field: verr.Message,
		})
		return
	}

	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, utils.ErrDuplicateKey):
		utils.ErrorResponse(c, http.StatusConflict, "ALREADY_EXISTS", "A record with these details already exists")
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, utils.ErrAccountLocked):
		utils.ErrorResponse(c, http.StatusLocked, "ACCOUNT_LOCKED", "Account temporarily locked after repeated failed logins")
	case errors.Is(err, utils.ErrAccountInactive):
		utils.ErrorResponse(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is deactivated")
	case errors.Is(err, utils.ErrTerminalStatus):
		utils.ErrorResponse(c, http.StatusConflict, "TERMINAL_STATUS", "Request is already in a final state")
	case errors.Is(err, utils.ErrInvalidTransition):
		utils.ErrorResponse(c, http.StatusConflict, "INVALID_TRANSITION", "Status change is not allowed from the current state")
	case errors.Is(err, utils.ErrStatusConflict):
		utils.ErrorResponse(c, http.StatusConflict, "STATUS_CONFLICT", "Request was modified concurrently, retry with fresh state")
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_BODY", "Request body is not valid JSON")
		return false
	}
	return true
}
