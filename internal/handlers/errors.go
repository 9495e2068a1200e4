package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"submission-service/internal/services"
	"submission-service/internal/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to a status and the flat error envelope.
// Anything unrecognised is a 500 carrying the raw message.
func respondError(c *gin.Context, err error) {
	status, code, message := http.StatusInternalServerError, "INTERNAL_ERROR", err.Error()

	switch {
	case errors.Is(err, services.ErrSerialNotFound):
		status, code, message = http.StatusNotFound, "SERIAL_NOT_FOUND", "Serial not found"
	case errors.Is(err, services.ErrSubmissionNotFound):
		status, code, message = http.StatusNotFound, "SUBMISSION_NOT_FOUND", "Submission not found"
	case errors.Is(err, services.ErrPolicyNotFound):
		status, code = http.StatusNotFound, "POLICY_NOT_FOUND"
	case errors.Is(err, services.ErrNoAvailableSerial):
		status, code = http.StatusNotFound, "NO_AVAILABLE_SERIAL"
	case errors.Is(err, services.ErrSerialAlreadyIssued), errors.Is(err, services.ErrDuplicateSerial):
		status, code = http.StatusConflict, "CONFLICT"
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidFile), errors.Is(err, services.ErrInvalidStatus):
		status, code = http.StatusBadRequest, "VALIDATION_FAILED"
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, utils.CreateErrorResponse(code, message))
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, utils.CreateErrorResponse("INVALID_REQUEST", message))
}
