package rental

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/rentdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ImageStore persists uploaded room images and resolves their public URLs
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, key string) error
	PublicURL(key string) string
}

// imageExtensions maps the accepted sniffed content types to stored file extensions
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// RoomImageService stores room images and appends them to the room gallery
type RoomImageService struct {
	roomRepo rental.RoomRepository
	store    ImageStore
	logger   *zap.Logger
}

// NewRoomImageService creates a new RoomImageService
func NewRoomImageService(roomRepo rental.RoomRepository, store ImageStore, logger *zap.Logger) *RoomImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomImageService{roomRepo: roomRepo, store: store, logger: logger}
}

// Upload validates the image bytes, stores them under rooms/<roomID>/ and
// appends the resulting URL to the room. The object is removed again when
// the room cannot be saved.
func (s *RoomImageService) Upload(ctx context.Context, roomID uuid.UUID, data []byte) (*RoomResponse, error) {
	if len(data) == 0 {
		return nil, shared.NewValidationError("Image file is empty")
	}
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, shared.NewValidationError("Unsupported image type: " + contentType)
	}

	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	key := ImageKey(roomID, uuid.New(), ext)
	if err := s.store.Upload(ctx, key, data, contentType); err != nil {
		return nil, shared.WrapDomainError(shared.CodeInternal, "Failed to store image", err)
	}

	room.AddImage(s.store.PublicURL(key))
	if err := s.roomRepo.Save(ctx, room); err != nil {
		if delErr := s.store.DeleteObject(ctx, key); delErr != nil {
			s.logger.Warn("Failed to remove orphaned room image",
				zap.String("key", key),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	s.logger.Info("Room image uploaded",
		zap.String("room_id", roomID.String()),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)
	resp := ToRoomResponse(room)
	return &resp, nil
}

// ImageKey returns the object key of a room image
func ImageKey(roomID, imageID uuid.UUID, ext string) string {
	return "rooms/" + roomID.String() + "/" + imageID.String() + ext
}
