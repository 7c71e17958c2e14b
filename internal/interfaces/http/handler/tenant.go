package handler

import (
	"github.com/gin-gonic/gin"
	rentalapp "github.com/rentdesk/backend/internal/application/rental"
)

// TenantHandler handles tenant-related HTTP requests
type TenantHandler struct {
	BaseHandler
	tenantService *rentalapp.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *rentalapp.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
	}
}

// List godoc
// @Summary      List tenants
// @Tags         tenants
// @Produce      json
// @Param        status query string false "Tenant status filter"
// @Param        roomId query string false "Room ID filter"
// @Success      200 {object} dto.Response{data=[]rentalapp.TenantResponse}
// @Failure      400 {object} dto.Response
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	roomID, ok := h.optionalUUIDQuery(c, "roomId")
	if !ok {
		return
	}

	tenants, err := h.tenantService.List(c.Request.Context(), rentalapp.TenantListFilter{
		Status: optionalStringQuery(c, "status"),
		RoomID: roomID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenants)
}

// Create godoc
// @Summary      Lease a room to a new tenant
// @Description  The room is marked OCCUPIED in the same transaction
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body rentalapp.CreateTenantRequest true "Tenant"
// @Success      201 {object} dto.Response{data=rentalapp.TenantResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req rentalapp.CreateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tenant)
}

// GetByID godoc
// @Summary      Get a tenant with room and payments
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=rentalapp.TenantResponse}
// @Failure      404 {object} dto.Response
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "tenant")
	if !ok {
		return
	}

	tenant, err := h.tenantService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Update godoc
// @Summary      Update a tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        request body rentalapp.UpdateTenantRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=rentalapp.TenantResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /tenants/{id} [put]
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "tenant")
	if !ok {
		return
	}
	var req rentalapp.UpdateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Delete godoc
// @Summary      Delete a tenant
// @Description  The room becomes AVAILABLE when no active tenant remains
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=dto.MessageResponse}
// @Failure      404 {object} dto.Response
// @Router       /tenants/{id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "tenant")
	if !ok {
		return
	}

	if err := h.tenantService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, "Tenant")
}
