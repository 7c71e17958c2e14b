package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	rentalapp "github.com/rentdesk/backend/internal/application/rental"
)

// UtilityConsumptionHandler handles monthly meter reading HTTP requests
type UtilityConsumptionHandler struct {
	BaseHandler
	utilityService *rentalapp.UtilityConsumptionService
}

// NewUtilityConsumptionHandler creates a new utility consumption handler
func NewUtilityConsumptionHandler(utilityService *rentalapp.UtilityConsumptionService) *UtilityConsumptionHandler {
	return &UtilityConsumptionHandler{
		utilityService: utilityService,
	}
}

// List godoc
// @Summary      List utility readings, newest period first
// @Tags         utility-consumption
// @Produce      json
// @Param        roomId query string false "Room ID filter"
// @Success      200 {object} dto.Response{data=[]rentalapp.UtilityConsumptionResponse}
// @Failure      400 {object} dto.Response
// @Router       /utility-consumption [get]
func (h *UtilityConsumptionHandler) List(c *gin.Context) {
	roomID, ok := h.optionalUUIDQuery(c, "roomId")
	if !ok {
		return
	}

	records, err := h.utilityService.List(c.Request.Context(), roomID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// Previous godoc
// @Summary      Readings of the period before month/year
// @Tags         utility-consumption
// @Produce      json
// @Param        roomId query string true "Room ID"
// @Param        month query int true "Month of the new reading (1-12)"
// @Param        year query int true "Year of the new reading"
// @Success      200 {object} dto.Response{data=rentalapp.PreviousReadingsResponse}
// @Failure      400 {object} dto.Response
// @Router       /utility-consumption/previous [get]
func (h *UtilityConsumptionHandler) Previous(c *gin.Context) {
	roomID, err := uuid.Parse(c.Query("roomId"))
	if err != nil {
		h.BadRequest(c, "Query parameter roomId must be a valid ID")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		h.BadRequest(c, "Query parameter month must be an integer")
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		h.BadRequest(c, "Query parameter year must be an integer")
		return
	}

	readings, err := h.utilityService.PreviousReadings(c.Request.Context(), roomID, month, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, readings)
}

// Create godoc
// @Summary      Record a monthly reading
// @Description  Previous readings are resolved from the prior period when omitted
// @Tags         utility-consumption
// @Accept       json
// @Produce      json
// @Param        request body rentalapp.CreateUtilityConsumptionRequest true "Reading"
// @Success      201 {object} dto.Response{data=rentalapp.UtilityConsumptionResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /utility-consumption [post]
func (h *UtilityConsumptionHandler) Create(c *gin.Context) {
	var req rentalapp.CreateUtilityConsumptionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	record, err := h.utilityService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// GetByID godoc
// @Summary      Get a reading
// @Tags         utility-consumption
// @Produce      json
// @Param        id path string true "Reading ID"
// @Success      200 {object} dto.Response{data=rentalapp.UtilityConsumptionResponse}
// @Failure      404 {object} dto.Response
// @Router       /utility-consumption/{id} [get]
func (h *UtilityConsumptionHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "utility consumption")
	if !ok {
		return
	}

	record, err := h.utilityService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Update godoc
// @Summary      Update a reading
// @Tags         utility-consumption
// @Accept       json
// @Produce      json
// @Param        id path string true "Reading ID"
// @Param        request body rentalapp.UpdateUtilityConsumptionRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=rentalapp.UtilityConsumptionResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /utility-consumption/{id} [put]
func (h *UtilityConsumptionHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "utility consumption")
	if !ok {
		return
	}
	var req rentalapp.UpdateUtilityConsumptionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	record, err := h.utilityService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete godoc
// @Summary      Delete a reading
// @Tags         utility-consumption
// @Produce      json
// @Param        id path string true "Reading ID"
// @Success      200 {object} dto.Response{data=dto.MessageResponse}
// @Failure      404 {object} dto.Response
// @Router       /utility-consumption/{id} [delete]
func (h *UtilityConsumptionHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "utility consumption")
	if !ok {
		return
	}

	if err := h.utilityService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, "Utility consumption record")
}
