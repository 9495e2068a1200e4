package handlers

import (
	"fmt"
	"net/http"
	"time"

	"submission-service/internal/services"
	"submission-service/internal/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the read-only views: monitoring, customers and
// performance.
type ReportHandler struct {
	monitoringService  services.IMonitoringService
	performanceService services.IPerformanceService
}

func NewReportHandler(monitoringService services.IMonitoringService, performanceService services.IPerformanceService) *ReportHandler {
	return &ReportHandler{monitoringService: monitoringService, performanceService: performanceService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.Engine) {
	apiGr := router.Group("/api")
	apiGr.GET("/monitoring/all", h.GetMonitoring)
	apiGr.GET("/customers", h.GetCustomers)
	apiGr.GET("/customers/export", h.ExportCustomers)
	apiGr.GET("/performance/all", h.GetPerformance)
}

func (h *ReportHandler) GetMonitoring(c *gin.Context) {
	rows, err := h.monitoringService.ListMonitoring(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(rows))
}

func (h *ReportHandler) GetCustomers(c *gin.Context) {
	customers, err := h.monitoringService.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(customers))
}

func (h *ReportHandler) ExportCustomers(c *gin.Context) {
	data, err := h.monitoringService.ExportCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	fileName := fmt.Sprintf("customers_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *ReportHandler) GetPerformance(c *gin.Context) {
	report, err := h.performanceService.GetPerformance(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(report))
}
