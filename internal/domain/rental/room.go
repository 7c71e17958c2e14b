package rental

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RoomStatus represents the occupancy status of a room
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "AVAILABLE"
	RoomStatusOccupied    RoomStatus = "OCCUPIED"
	RoomStatusMaintenance RoomStatus = "MAINTENANCE"
	RoomStatusReserved    RoomStatus = "RESERVED"
)

// IsValid reports whether s is a known room status
func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance, RoomStatusReserved:
		return true
	}
	return false
}

// Room is a rentable unit. Its status tracks whether any tenant is actively leasing it.
type Room struct {
	shared.BaseEntity
	Name        string
	Description string
	Address     string
	Rent        decimal.Decimal
	Deposit     *decimal.Decimal
	Size        *decimal.Decimal
	Bedrooms    int
	Bathrooms   int
	Status      RoomStatus
	Amenities   []string
	Images      []string

	// Tenants is populated only by queries that load the association
	Tenants []Tenant
}

// NewRoom creates a new available room
func NewRoom(name, address string, rent decimal.Decimal) (*Room, error) {
	if err := validateRoomName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(address) == "" {
		return nil, shared.NewValidationError("Room address is required")
	}
	if rent.IsNegative() {
		return nil, shared.NewValidationError("Rent cannot be negative")
	}

	return &Room{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Address:    strings.TrimSpace(address),
		Rent:       rent,
		Status:     RoomStatusAvailable,
		Amenities:  []string{},
		Images:     []string{},
	}, nil
}

// SetStatus changes the room status
func (r *Room) SetStatus(status RoomStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("Invalid room status: " + string(status))
	}
	r.Status = status
	r.Touch()
	return nil
}

// MarkOccupied flags the room as leased, regardless of its prior status
func (r *Room) MarkOccupied() {
	r.Status = RoomStatusOccupied
	r.Touch()
}

// MarkAvailable flags the room as free for a new lease
func (r *Room) MarkAvailable() {
	r.Status = RoomStatusAvailable
	r.Touch()
}

// Rename updates the room name
func (r *Room) Rename(name string) error {
	if err := validateRoomName(name); err != nil {
		return err
	}
	r.Name = strings.TrimSpace(name)
	r.Touch()
	return nil
}

// SetRent updates the asking rent
func (r *Room) SetRent(rent decimal.Decimal) error {
	if rent.IsNegative() {
		return shared.NewValidationError("Rent cannot be negative")
	}
	r.Rent = rent
	r.Touch()
	return nil
}

// SetAmenities replaces the amenity set, dropping blanks and duplicates
func (r *Room) SetAmenities(amenities []string) {
	seen := make(map[string]struct{}, len(amenities))
	out := make([]string, 0, len(amenities))
	for _, a := range amenities {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	r.Amenities = out
	r.Touch()
}

// AddImage appends an image URI to the ordered gallery
func (r *Room) AddImage(uri string) {
	r.Images = append(r.Images, uri)
	r.Touch()
}

// ActiveTenants returns the loaded tenants whose status is ACTIVE
func (r *Room) ActiveTenants() []Tenant {
	active := make([]Tenant, 0, len(r.Tenants))
	for _, t := range r.Tenants {
		if t.IsActive() {
			active = append(active, t)
		}
	}
	return active
}

// RoomSummary is the minimal room identity attached to related records
type RoomSummary struct {
	ID      uuid.UUID
	Name    string
	Address string
}

// Summary returns the room's identity fields
func (r *Room) Summary() RoomSummary {
	return RoomSummary{ID: r.ID, Name: r.Name, Address: r.Address}
}

func validateRoomName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Room name is required")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Room name cannot exceed 200 characters")
	}
	return nil
}
