package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"submission-service/internal/models"
	"submission-service/internal/services"
	"submission-service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubmissionHandler struct {
	submissionService services.ISubmissionService
}

func NewSubmissionHandler(submissionService services.ISubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

func (h *SubmissionHandler) RegisterRoutes(router *gin.Engine) {
	apiGr := router.Group("/api")
	apiGr.POST("/monitoring/submit", h.Submit)
	apiGr.GET("/submissions/details/:serialNumber", h.GetDetails)
	apiGr.PATCH("/form-submissions/:id/status", h.UpdateStatus)
}

func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("error parsing submit request", "error", err)
		badRequest(c, "policyType, serialNumber and intermediaryEmail are required")
		return
	}

	created, err := h.submissionService.Submit(c.Request.Context(), req)
	if errors.Is(err, services.ErrPolicyNotFound) {
		c.JSON(http.StatusNotFound, utils.CreateErrorResponse("POLICY_NOT_FOUND", fmt.Sprintf("Policy Type '%s' not found.", req.PolicyType)))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(created))
}

func (h *SubmissionHandler) GetDetails(c *gin.Context) {
	details, err := h.submissionService.GetDetails(c.Request.Context(), c.Param("serialNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(details))
}

func (h *SubmissionHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid submission id")
		return
	}

	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}

	if err := h.submissionService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
