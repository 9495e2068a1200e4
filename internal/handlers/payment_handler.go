package handlers

import (
	"net/http"

	"submission-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentService services.IPaymentService
}

func NewPaymentHandler(paymentService services.IPaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.Engine) {
	apiGr := router.Group("/api")
	apiGr.POST("/submissions/:id/pay", h.MarkPaid)
	apiGr.POST("/form-submissions/:id/pay", h.MarkPaid)
}

func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid submission id")
		return
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Paid",
		"nextDate": result.NextDate,
	})
}
