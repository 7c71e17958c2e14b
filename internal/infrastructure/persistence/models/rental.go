package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/shopspring/decimal"
)

// RoomModel is the persistence model for rooms
type RoomModel struct {
	BaseModel
	Name        string           `gorm:"type:varchar(200);not null"`
	Description string           `gorm:"type:text"`
	Address     string           `gorm:"type:text;not null"`
	Rent        decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Deposit     *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Size        *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Bedrooms    int              `gorm:"not null;default:0"`
	Bathrooms   int              `gorm:"not null;default:0"`
	Status      string           `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
	Amenities   []string         `gorm:"type:jsonb;serializer:json;not null"`
	Images      []string         `gorm:"type:jsonb;serializer:json;not null"`
	Tenants     []TenantModel    `gorm:"foreignKey:RoomID"`
}

// TableName returns the table name for GORM
func (RoomModel) TableName() string {
	return "rooms"
}

// ToDomain converts the model (and any loaded tenants) to a domain room
func (m *RoomModel) ToDomain() *rental.Room {
	room := &rental.Room{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
		Address:     m.Address,
		Rent:        m.Rent,
		Deposit:     m.Deposit,
		Size:        m.Size,
		Bedrooms:    m.Bedrooms,
		Bathrooms:   m.Bathrooms,
		Status:      rental.RoomStatus(m.Status),
		Amenities:   nonNil(m.Amenities),
		Images:      nonNil(m.Images),
	}
	if m.Tenants != nil {
		room.Tenants = make([]rental.Tenant, len(m.Tenants))
		for i := range m.Tenants {
			room.Tenants[i] = *m.Tenants[i].ToDomain()
		}
	}
	return room
}

// FromDomain populates the model from a domain room. Associations are not copied.
func (m *RoomModel) FromDomain(r *rental.Room) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Name = r.Name
	m.Description = r.Description
	m.Address = r.Address
	m.Rent = r.Rent
	m.Deposit = r.Deposit
	m.Size = r.Size
	m.Bedrooms = r.Bedrooms
	m.Bathrooms = r.Bathrooms
	m.Status = string(r.Status)
	m.Amenities = nonNil(r.Amenities)
	m.Images = nonNil(r.Images)
}

// RoomModelFromDomain creates a new RoomModel from a domain room
func RoomModelFromDomain(r *rental.Room) *RoomModel {
	m := &RoomModel{}
	m.FromDomain(r)
	return m
}

// TenantModel is the persistence model for tenants
type TenantModel struct {
	BaseModel
	FirstName   string          `gorm:"type:varchar(100);not null"`
	LastName    string          `gorm:"type:varchar(100);not null"`
	Email       string          `gorm:"type:varchar(200)"`
	Phone       string          `gorm:"type:varchar(50)"`
	RoomID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Room        *RoomModel      `gorm:"foreignKey:RoomID"`
	MoveInDate  time.Time       `gorm:"not null"`
	MoveOutDate *time.Time      `gorm:""`
	Rent        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Deposit     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Payments    []PaymentModel  `gorm:"foreignKey:TenantID"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the model (and any loaded associations) to a domain tenant
func (m *TenantModel) ToDomain() *rental.Tenant {
	t := &rental.Tenant{
		BaseEntity:  m.BaseModel.ToDomain(),
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		Phone:       m.Phone,
		RoomID:      m.RoomID,
		MoveInDate:  m.MoveInDate,
		MoveOutDate: m.MoveOutDate,
		Rent:        m.Rent,
		Deposit:     m.Deposit,
		Status:      rental.TenantStatus(m.Status),
	}
	if m.Room != nil {
		t.Room = m.Room.ToDomain()
	}
	if m.Payments != nil {
		t.Payments = make([]rental.Payment, len(m.Payments))
		for i := range m.Payments {
			t.Payments[i] = *m.Payments[i].ToDomain()
		}
	}
	return t
}

// FromDomain populates the model from a domain tenant. Associations are not copied.
func (m *TenantModel) FromDomain(t *rental.Tenant) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.FirstName = t.FirstName
	m.LastName = t.LastName
	m.Email = t.Email
	m.Phone = t.Phone
	m.RoomID = t.RoomID
	m.MoveInDate = t.MoveInDate
	m.MoveOutDate = t.MoveOutDate
	m.Rent = t.Rent
	m.Deposit = t.Deposit
	m.Status = string(t.Status)
}

// TenantModelFromDomain creates a new TenantModel from a domain tenant
func TenantModelFromDomain(t *rental.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// PaymentModel is the persistence model for payments
type PaymentModel struct {
	BaseModel
	TenantID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tenant   *TenantModel    `gorm:"foreignKey:TenantID"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DueDate  time.Time       `gorm:"not null;index"`
	Date     time.Time       `gorm:"not null"`
	Status   string          `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Method   string          `gorm:"type:varchar(50)"`
	Notes    string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the model (and any loaded tenant) to a domain payment
func (m *PaymentModel) ToDomain() *rental.Payment {
	p := &rental.Payment{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		Amount:     m.Amount,
		DueDate:    m.DueDate,
		Date:       m.Date,
		Status:     rental.PaymentStatus(m.Status),
		Method:     m.Method,
		Notes:      m.Notes,
	}
	if m.Tenant != nil {
		p.Tenant = m.Tenant.ToDomain()
	}
	return p
}

// FromDomain populates the model from a domain payment. Associations are not copied.
func (m *PaymentModel) FromDomain(p *rental.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.TenantID = p.TenantID
	m.Amount = p.Amount
	m.DueDate = p.DueDate
	m.Date = p.Date
	m.Status = string(p.Status)
	m.Method = p.Method
	m.Notes = p.Notes
}

// PaymentModelFromDomain creates a new PaymentModel from a domain payment
func PaymentModelFromDomain(p *rental.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// UtilityConsumptionModel is the persistence model for monthly meter readings.
// (room_id, month, year) is unique.
type UtilityConsumptionModel struct {
	BaseModel
	RoomID                 uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_utility_room_period,priority:1"`
	Room                   *RoomModel       `gorm:"foreignKey:RoomID"`
	Month                  int              `gorm:"not null;uniqueIndex:idx_utility_room_period,priority:2"`
	Year                   int              `gorm:"not null;uniqueIndex:idx_utility_room_period,priority:3"`
	ElectricNumber         decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	WaterNumber            decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	PreviousElectricNumber *decimal.Decimal `gorm:"type:decimal(18,4)"`
	PreviousWaterNumber    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ElectricCost           *decimal.Decimal `gorm:"type:decimal(18,4)"`
	WaterCost              *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Notes                  string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (UtilityConsumptionModel) TableName() string {
	return "utility_consumptions"
}

// ToDomain converts the model (and any loaded room) to a domain reading
func (m *UtilityConsumptionModel) ToDomain() *rental.UtilityConsumption {
	u := &rental.UtilityConsumption{
		BaseEntity:             m.BaseModel.ToDomain(),
		RoomID:                 m.RoomID,
		Period:                 rental.Period{Month: m.Month, Year: m.Year},
		ElectricNumber:         m.ElectricNumber,
		WaterNumber:            m.WaterNumber,
		PreviousElectricNumber: m.PreviousElectricNumber,
		PreviousWaterNumber:    m.PreviousWaterNumber,
		ElectricCost:           m.ElectricCost,
		WaterCost:              m.WaterCost,
		Notes:                  m.Notes,
	}
	if m.Room != nil {
		summary := rental.RoomSummary{ID: m.Room.ID, Name: m.Room.Name, Address: m.Room.Address}
		u.Room = &summary
	}
	return u
}

// FromDomain populates the model from a domain reading. Associations are not copied.
func (m *UtilityConsumptionModel) FromDomain(u *rental.UtilityConsumption) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.RoomID = u.RoomID
	m.Month = u.Period.Month
	m.Year = u.Period.Year
	m.ElectricNumber = u.ElectricNumber
	m.WaterNumber = u.WaterNumber
	m.PreviousElectricNumber = u.PreviousElectricNumber
	m.PreviousWaterNumber = u.PreviousWaterNumber
	m.ElectricCost = u.ElectricCost
	m.WaterCost = u.WaterCost
	m.Notes = u.Notes
}

// UtilityConsumptionModelFromDomain creates a new UtilityConsumptionModel from a domain reading
func UtilityConsumptionModelFromDomain(u *rental.UtilityConsumption) *UtilityConsumptionModel {
	m := &UtilityConsumptionModel{}
	m.FromDomain(u)
	return m
}

// AllModels lists every model for AutoMigrate in tests, parents first
func AllModels() []any {
	return []any{
		&RoomModel{},
		&TenantModel{},
		&PaymentModel{},
		&UtilityConsumptionModel{},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
