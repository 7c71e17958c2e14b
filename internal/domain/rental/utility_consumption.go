package rental

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Validation messages surfaced to API clients verbatim
const (
	MsgUtilityMissingFields = "Missing required fields: roomId, month, year, electricNumber, waterNumber"
	MsgUtilityInvalidMonth  = "Month must be between 1 and 12"
	MsgUtilityInvalidYear   = "Year must be a positive number"
	MsgUtilityNegative      = "Meter readings and costs cannot be negative"
	MsgUtilityDuplicate     = "A record for this room, month, and year already exists"
	MsgUtilityNotFound      = "Utility consumption record not found"
)

// Period identifies one monthly billing cycle
type Period struct {
	Month int
	Year  int
}

// NewPeriod validates and returns a period
func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, shared.NewValidationError(MsgUtilityInvalidMonth)
	}
	if year < 1 {
		return Period{}, shared.NewValidationError(MsgUtilityInvalidYear)
	}
	return Period{Month: month, Year: year}, nil
}

// Previous returns the period immediately before p. January wraps to December of the prior year.
func (p Period) Previous() Period {
	if p.Month == 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

// UtilityConsumption is one month of electricity and water meter readings for a room
type UtilityConsumption struct {
	shared.BaseEntity
	RoomID                 uuid.UUID
	Period                 Period
	ElectricNumber         decimal.Decimal
	WaterNumber            decimal.Decimal
	PreviousElectricNumber *decimal.Decimal
	PreviousWaterNumber    *decimal.Decimal
	ElectricCost           *decimal.Decimal
	WaterCost              *decimal.Decimal
	Notes                  string

	// Room is populated only by queries that load the association
	Room *RoomSummary
}

// NewUtilityConsumption creates a reading for the given room and period
func NewUtilityConsumption(roomID uuid.UUID, period Period, electric, water decimal.Decimal) (*UtilityConsumption, error) {
	if roomID == uuid.Nil {
		return nil, shared.NewValidationError(MsgUtilityMissingFields)
	}
	if _, err := NewPeriod(period.Month, period.Year); err != nil {
		return nil, err
	}
	if electric.IsNegative() || water.IsNegative() {
		return nil, shared.NewValidationError(MsgUtilityNegative)
	}

	return &UtilityConsumption{
		BaseEntity:     shared.NewBaseEntity(),
		RoomID:         roomID,
		Period:         period,
		ElectricNumber: electric,
		WaterNumber:    water,
	}, nil
}

// SetReadings replaces the current meter readings. Nil leaves a reading unchanged.
func (u *UtilityConsumption) SetReadings(electric, water *decimal.Decimal) error {
	if isNegative(electric) || isNegative(water) {
		return shared.NewValidationError(MsgUtilityNegative)
	}
	if electric != nil {
		u.ElectricNumber = *electric
	}
	if water != nil {
		u.WaterNumber = *water
	}
	u.Touch()
	return nil
}

// SetPreviousReadings replaces the previous-period readings. Nil leaves a reading unchanged.
func (u *UtilityConsumption) SetPreviousReadings(electric, water *decimal.Decimal) error {
	if isNegative(electric) || isNegative(water) {
		return shared.NewValidationError(MsgUtilityNegative)
	}
	if electric != nil {
		u.PreviousElectricNumber = copyDecimal(electric)
	}
	if water != nil {
		u.PreviousWaterNumber = copyDecimal(water)
	}
	u.Touch()
	return nil
}

// SetCosts replaces the billed costs. Nil leaves a cost unchanged.
func (u *UtilityConsumption) SetCosts(electric, water *decimal.Decimal) error {
	if isNegative(electric) || isNegative(water) {
		return shared.NewValidationError(MsgUtilityNegative)
	}
	if electric != nil {
		u.ElectricCost = copyDecimal(electric)
	}
	if water != nil {
		u.WaterCost = copyDecimal(water)
	}
	u.Touch()
	return nil
}

// SetNotes replaces the free-form notes
func (u *UtilityConsumption) SetNotes(notes string) {
	u.Notes = strings.TrimSpace(notes)
	u.Touch()
}

// FillPreviousFrom copies readings from the prior period's record into any previous reading
// that is still unset. Values already present are kept.
func (u *UtilityConsumption) FillPreviousFrom(prev *UtilityConsumption) {
	if prev == nil {
		return
	}
	if u.PreviousElectricNumber == nil {
		v := prev.ElectricNumber
		u.PreviousElectricNumber = &v
	}
	if u.PreviousWaterNumber == nil {
		v := prev.WaterNumber
		u.PreviousWaterNumber = &v
	}
}

// ElectricConsumption returns the electricity used in this period, or nil when undefined
func (u *UtilityConsumption) ElectricConsumption() *decimal.Decimal {
	return Consumption(u.ElectricNumber, u.PreviousElectricNumber)
}

// WaterConsumption returns the water used in this period, or nil when undefined
func (u *UtilityConsumption) WaterConsumption() *decimal.Decimal {
	return Consumption(u.WaterNumber, u.PreviousWaterNumber)
}

// TotalCost returns the sum of the electric and water costs
func (u *UtilityConsumption) TotalCost() decimal.Decimal {
	return TotalCost(u.ElectricCost, u.WaterCost)
}

// Consumption returns current - previous. It is undefined (nil) unless previous is present and positive.
func Consumption(current decimal.Decimal, previous *decimal.Decimal) *decimal.Decimal {
	if previous == nil || !previous.IsPositive() {
		return nil
	}
	d := current.Sub(*previous)
	return &d
}

// TotalCost sums two optional costs, treating absent values as zero
func TotalCost(electric, water *decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	if electric != nil {
		total = total.Add(*electric)
	}
	if water != nil {
		total = total.Add(*water)
	}
	return total
}

func isNegative(d *decimal.Decimal) bool {
	return d != nil && d.IsNegative()
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	v := *d
	return &v
}
