package handler

import (
	"github.com/gin-gonic/gin"
	rentalapp "github.com/rentdesk/backend/internal/application/rental"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	BaseHandler
	paymentService *rentalapp.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *rentalapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// List godoc
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        status query string false "Payment status filter"
// @Param        tenantId query string false "Tenant ID filter"
// @Success      200 {object} dto.Response{data=[]rentalapp.PaymentResponse}
// @Failure      400 {object} dto.Response
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, ok := h.optionalUUIDQuery(c, "tenantId")
	if !ok {
		return
	}

	payments, err := h.paymentService.List(c.Request.Context(), rentalapp.PaymentListFilter{
		Status:   optionalStringQuery(c, "status"),
		TenantID: tenantID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Create godoc
// @Summary      Record a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body rentalapp.CreatePaymentRequest true "Payment"
// @Success      201 {object} dto.Response{data=rentalapp.PaymentResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req rentalapp.CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// GetByID godoc
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200 {object} dto.Response{data=rentalapp.PaymentResponse}
// @Failure      404 {object} dto.Response
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "payment")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Update godoc
// @Summary      Update a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID"
// @Param        request body rentalapp.UpdatePaymentRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=rentalapp.PaymentResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "payment")
	if !ok {
		return
	}
	var req rentalapp.UpdatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Delete godoc
// @Summary      Delete a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200 {object} dto.Response{data=dto.MessageResponse}
// @Failure      404 {object} dto.Response
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "payment")
	if !ok {
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, "Payment")
}
