package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"submission-service/internal/models"
	"submission-service/internal/services"
	"submission-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type SerialHandler struct {
	serialService services.ISerialService
	middleware    *Middleware
}

func NewSerialHandler(serialService services.ISerialService, middleware *Middleware) *SerialHandler {
	return &SerialHandler{serialService: serialService, middleware: middleware}
}

func (h *SerialHandler) RegisterRoutes(router *gin.Engine) {
	serialGr := router.Group("/api/serial-numbers")
	serialGr.GET("/available/:policyType", h.GetAvailableSerial)

	adminGr := serialGr.Group("", h.middleware.RequireRole(models.RoleAdmin))
	adminGr.GET("", h.ListSerials)
	adminGr.GET("/stats", h.GetStats)
	adminGr.POST("", h.CreateSerial)
	adminGr.POST("/import", h.ImportSerials)
}

func (h *SerialHandler) GetAvailableSerial(c *gin.Context) {
	policyType := c.Param("policyType")

	serial, err := h.serialService.AvailableSerial(c.Request.Context(), policyType)
	if errors.Is(err, services.ErrNoAvailableSerial) {
		c.JSON(http.StatusNotFound, utils.CreateErrorResponse("NO_AVAILABLE_SERIAL", fmt.Sprintf("No available serials for %s", policyType)))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"requiresSerial": true,
		"serialNumber":   serial.Value,
	})
}

func (h *SerialHandler) ListSerials(c *gin.Context) {
	var filter models.SerialFilter
	if pool := c.Query("pool"); pool != "" {
		p := models.SerialPool(pool)
		filter.Pool = &p
	}
	issued, err := utils.GetQueryParamAsBool(c, "issued")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	filter.Issued = issued
	filter.Limit, err = utils.GetQueryParamAsInt(c, "limit", 200)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	serials, err := h.serialService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(serials))
}

func (h *SerialHandler) GetStats(c *gin.Context) {
	stats, err := h.serialService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(stats))
}

func (h *SerialHandler) CreateSerial(c *gin.Context) {
	var req models.CreateSerialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	serial, err := h.serialService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(serial))
}

func (h *SerialHandler) ImportSerials(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.serialService.Import(c.Request.Context(), fileHeader.Filename, data, models.SerialPool(c.PostForm("pool")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(result))
}
