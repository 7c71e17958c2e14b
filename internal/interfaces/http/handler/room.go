package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	rentalapp "github.com/rentdesk/backend/internal/application/rental"
	"github.com/rentdesk/backend/internal/interfaces/http/dto"
)

// RoomHandler handles room-related HTTP requests
type RoomHandler struct {
	BaseHandler
	roomService    *rentalapp.RoomService
	receiptService *rentalapp.ReceiptService
	imageService   *rentalapp.RoomImageService
	maxImageSize   int64
}

// NewRoomHandler creates a new RoomHandler. imageService may be nil when
// object storage is not configured; uploads then answer 503.
func NewRoomHandler(
	roomService *rentalapp.RoomService,
	receiptService *rentalapp.ReceiptService,
	imageService *rentalapp.RoomImageService,
	maxImageSize int64,
) *RoomHandler {
	return &RoomHandler{
		roomService:    roomService,
		receiptService: receiptService,
		imageService:   imageService,
		maxImageSize:   maxImageSize,
	}
}

// List godoc
// @Summary      List rooms
// @Tags         rooms
// @Produce      json
// @Param        status query string false "Room status filter"
// @Success      200 {object} dto.Response{data=[]rentalapp.RoomResponse}
// @Failure      400 {object} dto.Response
// @Router       /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.roomService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rooms)
}

// Create godoc
// @Summary      Create a room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body rentalapp.CreateRoomRequest true "Room"
// @Success      201 {object} dto.Response{data=rentalapp.RoomResponse}
// @Failure      400 {object} dto.Response
// @Router       /rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req rentalapp.CreateRoomRequest
	if !h.bindJSON(c, &req) {
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, room)
}

// GetByID godoc
// @Summary      Get a room with its tenants and their recent payments
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200 {object} dto.Response{data=rentalapp.RoomResponse}
// @Failure      404 {object} dto.Response
// @Router       /rooms/{id} [get]
func (h *RoomHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "room")
	if !ok {
		return
	}

	room, err := h.roomService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// Update godoc
// @Summary      Update a room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id path string true "Room ID"
// @Param        request body rentalapp.UpdateRoomRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=rentalapp.RoomResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /rooms/{id} [put]
func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "room")
	if !ok {
		return
	}
	var req rentalapp.UpdateRoomRequest
	if !h.bindJSON(c, &req) {
		return
	}

	room, err := h.roomService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// Delete godoc
// @Summary      Delete a room and everything recorded against it
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200 {object} dto.Response{data=dto.MessageResponse}
// @Failure      404 {object} dto.Response
// @Router       /rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "room")
	if !ok {
		return
	}

	if err := h.roomService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, "Room")
}

// Receipt godoc
// @Summary      Receipt for a room
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200 {object} dto.Response{data=rentalapp.ReceiptResponse}
// @Failure      404 {object} dto.Response
// @Router       /rooms/{id}/receipt [get]
func (h *RoomHandler) Receipt(c *gin.Context) {
	id, ok := h.parseID(c, "room")
	if !ok {
		return
	}

	receipt, err := h.receiptService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// UploadImage godoc
// @Summary      Upload a room image
// @Tags         rooms
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Room ID"
// @Param        file formData file true "JPEG, PNG, GIF or WebP image"
// @Success      201 {object} dto.Response{data=rentalapp.RoomResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      413 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /rooms/{id}/images [post]
func (h *RoomHandler) UploadImage(c *gin.Context) {
	id, ok := h.parseID(c, "room")
	if !ok {
		return
	}
	if h.imageService == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Image storage is not configured")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size")
			return
		}
		h.BadRequest(c, "Multipart field 'file' is required")
		return
	}
	if h.maxImageSize > 0 && fileHeader.Size > h.maxImageSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Image exceeds maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	room, err := h.imageService.Upload(c.Request.Context(), id, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, room)
}
