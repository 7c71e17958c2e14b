package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/rental"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Room DTOs
// =============================================================================

// CreateRoomRequest represents a request to create a new room
type CreateRoomRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description"`
	Address     string           `json:"address" binding:"required,min=1,max=500"`
	Rent        *decimal.Decimal `json:"rent" binding:"required"`
	Deposit     *decimal.Decimal `json:"deposit"`
	Size        *decimal.Decimal `json:"size"`
	Bedrooms    int              `json:"bedrooms" binding:"gte=0"`
	Bathrooms   int              `json:"bathrooms" binding:"gte=0"`
	Status      string           `json:"status" binding:"omitempty,room_status"`
	Amenities   []string         `json:"amenities"`
	Images      []string         `json:"images"`
}

// UpdateRoomRequest represents a partial room update. Nil fields are left unchanged.
type UpdateRoomRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Address     *string          `json:"address" binding:"omitempty,min=1,max=500"`
	Rent        *decimal.Decimal `json:"rent"`
	Deposit     *decimal.Decimal `json:"deposit"`
	Size        *decimal.Decimal `json:"size"`
	Bedrooms    *int             `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms   *int             `json:"bathrooms" binding:"omitempty,gte=0"`
	Status      *string          `json:"status" binding:"omitempty,room_status"`
	Amenities   []string         `json:"amenities"`
	Images      []string         `json:"images"`
}

// RoomResponse represents a room in API responses
type RoomResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Address     string           `json:"address"`
	Rent        decimal.Decimal  `json:"rent"`
	Deposit     *decimal.Decimal `json:"deposit"`
	Size        *decimal.Decimal `json:"size"`
	Bedrooms    int              `json:"bedrooms"`
	Bathrooms   int              `json:"bathrooms"`
	Status      string           `json:"status"`
	Amenities   []string         `json:"amenities"`
	Images      []string         `json:"images"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Tenants     []TenantResponse `json:"tenants,omitempty"`
}

// ToRoomResponse converts a domain room to a response, including any loaded tenants
func ToRoomResponse(r *rental.Room) RoomResponse {
	resp := RoomResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		Rent:        r.Rent,
		Deposit:     r.Deposit,
		Size:        r.Size,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		Status:      string(r.Status),
		Amenities:   nonNilStrings(r.Amenities),
		Images:      nonNilStrings(r.Images),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if len(r.Tenants) > 0 {
		resp.Tenants = make([]TenantResponse, len(r.Tenants))
		for i := range r.Tenants {
			resp.Tenants[i] = ToTenantResponse(&r.Tenants[i])
		}
	}
	return resp
}

// ToRoomResponses converts a slice of domain rooms
func ToRoomResponses(rooms []rental.Room) []RoomResponse {
	out := make([]RoomResponse, len(rooms))
	for i := range rooms {
		out[i] = ToRoomResponse(&rooms[i])
	}
	return out
}

// RoomSummaryResponse is the minimal room identity attached to related records
type RoomSummaryResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}

// =============================================================================
// Tenant DTOs
// =============================================================================

// CreateTenantRequest represents a request to lease a room to a new tenant
type CreateTenantRequest struct {
	FirstName   string           `json:"firstName" binding:"required,min=1,max=100"`
	LastName    string           `json:"lastName" binding:"required,min=1,max=100"`
	Email       string           `json:"email" binding:"omitempty,email,max=200"`
	Phone       string           `json:"phone" binding:"max=50"`
	RoomID      uuid.UUID        `json:"roomId" binding:"required"`
	MoveInDate  time.Time        `json:"moveInDate" binding:"required"`
	MoveOutDate *time.Time       `json:"moveOutDate"`
	Rent        *decimal.Decimal `json:"rent" binding:"required"`
	Deposit     *decimal.Decimal `json:"deposit" binding:"required"`
	Status      string           `json:"status" binding:"omitempty,tenant_status"`
}

// UpdateTenantRequest represents a partial tenant update. Nil fields are left unchanged.
type UpdateTenantRequest struct {
	FirstName   *string          `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName    *string          `json:"lastName" binding:"omitempty,min=1,max=100"`
	Email       *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone       *string          `json:"phone" binding:"omitempty,max=50"`
	MoveInDate  *time.Time       `json:"moveInDate"`
	MoveOutDate *time.Time       `json:"moveOutDate"`
	Rent        *decimal.Decimal `json:"rent"`
	Deposit     *decimal.Decimal `json:"deposit"`
	Status      *string          `json:"status" binding:"omitempty,tenant_status"`
}

// TenantListFilter narrows tenant listings
type TenantListFilter struct {
	Status *string
	RoomID *uuid.UUID
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID          uuid.UUID         `json:"id"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	RoomID      uuid.UUID         `json:"roomId"`
	MoveInDate  time.Time         `json:"moveInDate"`
	MoveOutDate *time.Time        `json:"moveOutDate"`
	Rent        decimal.Decimal   `json:"rent"`
	Deposit     decimal.Decimal   `json:"deposit"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Room        *RoomResponse     `json:"room,omitempty"`
	Payments    []PaymentResponse `json:"payments,omitempty"`
}

// ToTenantResponse converts a domain tenant, including any loaded room and payments
func ToTenantResponse(t *rental.Tenant) TenantResponse {
	resp := TenantResponse{
		ID:          t.ID,
		FirstName:   t.FirstName,
		LastName:    t.LastName,
		Email:       t.Email,
		Phone:       t.Phone,
		RoomID:      t.RoomID,
		MoveInDate:  t.MoveInDate,
		MoveOutDate: t.MoveOutDate,
		Rent:        t.Rent,
		Deposit:     t.Deposit,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Room != nil {
		room := ToRoomResponse(t.Room)
		resp.Room = &room
	}
	if len(t.Payments) > 0 {
		resp.Payments = make([]PaymentResponse, len(t.Payments))
		for i := range t.Payments {
			resp.Payments[i] = ToPaymentResponse(&t.Payments[i])
		}
	}
	return resp
}

// ToTenantResponses converts a slice of domain tenants
func ToTenantResponses(tenants []rental.Tenant) []TenantResponse {
	out := make([]TenantResponse, len(tenants))
	for i := range tenants {
		out[i] = ToTenantResponse(&tenants[i])
	}
	return out
}

// =============================================================================
// Payment DTOs
// =============================================================================

// CreatePaymentRequest represents a request to record a payment
type CreatePaymentRequest struct {
	TenantID uuid.UUID        `json:"tenantId" binding:"required"`
	Amount   *decimal.Decimal `json:"amount" binding:"required"`
	DueDate  time.Time        `json:"dueDate" binding:"required"`
	Date     *time.Time       `json:"date"`
	Status   string           `json:"status" binding:"omitempty,payment_status"`
	Method   string           `json:"method" binding:"max=50"`
	Notes    string           `json:"notes"`
}

// UpdatePaymentRequest represents a partial payment update. Nil fields are left unchanged.
type UpdatePaymentRequest struct {
	Amount  *decimal.Decimal `json:"amount"`
	DueDate *time.Time       `json:"dueDate"`
	Date    *time.Time       `json:"date"`
	Status  *string          `json:"status" binding:"omitempty,payment_status"`
	Method  *string          `json:"method" binding:"omitempty,max=50"`
	Notes   *string          `json:"notes"`
}

// PaymentListFilter narrows payment listings
type PaymentListFilter struct {
	Status   *string
	TenantID *uuid.UUID
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	TenantID  uuid.UUID       `json:"tenantId"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"dueDate"`
	Date      time.Time       `json:"date"`
	Status    string          `json:"status"`
	Method    string          `json:"method"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Tenant    *TenantResponse `json:"tenant,omitempty"`
}

// ToPaymentResponse converts a domain payment, including any loaded tenant
func ToPaymentResponse(p *rental.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Amount:    p.Amount,
		DueDate:   p.DueDate,
		Date:      p.Date,
		Status:    string(p.Status),
		Method:    p.Method,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Tenant != nil {
		tenant := ToTenantResponse(p.Tenant)
		resp.Tenant = &tenant
	}
	return resp
}

// ToPaymentResponses converts a slice of domain payments
func ToPaymentResponses(payments []rental.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out
}

// =============================================================================
// Utility consumption DTOs
// =============================================================================

// CreateUtilityConsumptionRequest represents a new monthly reading.
// Required fields are pointers so that an omitted field is distinguishable from zero.
type CreateUtilityConsumptionRequest struct {
	RoomID                 *uuid.UUID       `json:"roomId"`
	Month                  *int             `json:"month"`
	Year                   *int             `json:"year"`
	ElectricNumber         *decimal.Decimal `json:"electricNumber"`
	WaterNumber            *decimal.Decimal `json:"waterNumber"`
	PreviousElectricNumber *decimal.Decimal `json:"previousElectricNumber"`
	PreviousWaterNumber    *decimal.Decimal `json:"previousWaterNumber"`
	ElectricCost           *decimal.Decimal `json:"electricCost"`
	WaterCost              *decimal.Decimal `json:"waterCost"`
	Notes                  *string          `json:"notes"`
}

// UpdateUtilityConsumptionRequest represents a partial reading update.
// Room and period cannot be changed.
type UpdateUtilityConsumptionRequest struct {
	ElectricNumber         *decimal.Decimal `json:"electricNumber"`
	WaterNumber            *decimal.Decimal `json:"waterNumber"`
	PreviousElectricNumber *decimal.Decimal `json:"previousElectricNumber"`
	PreviousWaterNumber    *decimal.Decimal `json:"previousWaterNumber"`
	ElectricCost           *decimal.Decimal `json:"electricCost"`
	WaterCost              *decimal.Decimal `json:"waterCost"`
	Notes                  *string          `json:"notes"`
}

// UtilityConsumptionResponse represents a reading in API responses.
// Consumption and total cost are present only when defined.
type UtilityConsumptionResponse struct {
	ID                     uuid.UUID            `json:"id"`
	RoomID                 uuid.UUID            `json:"roomId"`
	Month                  int                  `json:"month"`
	Year                   int                  `json:"year"`
	ElectricNumber         decimal.Decimal      `json:"electricNumber"`
	WaterNumber            decimal.Decimal      `json:"waterNumber"`
	PreviousElectricNumber *decimal.Decimal     `json:"previousElectricNumber"`
	PreviousWaterNumber    *decimal.Decimal     `json:"previousWaterNumber"`
	ElectricCost           *decimal.Decimal     `json:"electricCost"`
	WaterCost              *decimal.Decimal     `json:"waterCost"`
	Notes                  string               `json:"notes"`
	ElectricConsumption    *string              `json:"electricConsumption,omitempty"`
	WaterConsumption       *string              `json:"waterConsumption,omitempty"`
	TotalCost              *string              `json:"totalCost,omitempty"`
	CreatedAt              time.Time            `json:"createdAt"`
	UpdatedAt              time.Time            `json:"updatedAt"`
	Room                   *RoomSummaryResponse `json:"room,omitempty"`
}

// ToUtilityConsumptionResponse converts a domain reading with its derived figures
func ToUtilityConsumptionResponse(u *rental.UtilityConsumption) UtilityConsumptionResponse {
	resp := UtilityConsumptionResponse{
		ID:                     u.ID,
		RoomID:                 u.RoomID,
		Month:                  u.Period.Month,
		Year:                   u.Period.Year,
		ElectricNumber:         u.ElectricNumber,
		WaterNumber:            u.WaterNumber,
		PreviousElectricNumber: u.PreviousElectricNumber,
		PreviousWaterNumber:    u.PreviousWaterNumber,
		ElectricCost:           u.ElectricCost,
		WaterCost:              u.WaterCost,
		Notes:                  u.Notes,
		ElectricConsumption:    fixed2(u.ElectricConsumption()),
		WaterConsumption:       fixed2(u.WaterConsumption()),
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
	if total := u.TotalCost(); total.IsPositive() {
		resp.TotalCost = fixed2(&total)
	}
	if u.Room != nil {
		resp.Room = &RoomSummaryResponse{ID: u.Room.ID, Name: u.Room.Name, Address: u.Room.Address}
	}
	return resp
}

// ToUtilityConsumptionResponses converts a slice of domain readings
func ToUtilityConsumptionResponses(records []rental.UtilityConsumption) []UtilityConsumptionResponse {
	out := make([]UtilityConsumptionResponse, len(records))
	for i := range records {
		out[i] = ToUtilityConsumptionResponse(&records[i])
	}
	return out
}

// PreviousReadingsResponse is the result of a previous-period lookup
type PreviousReadingsResponse struct {
	Month                  int              `json:"month"`
	Year                   int              `json:"year"`
	Found                  bool             `json:"found"`
	PreviousElectricNumber *decimal.Decimal `json:"previousElectricNumber"`
	PreviousWaterNumber    *decimal.Decimal `json:"previousWaterNumber"`
}

// =============================================================================
// Receipt DTOs
// =============================================================================

// ReceiptRoom holds the room attributes printed on a receipt
type ReceiptRoom struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Address     string           `json:"address"`
	Rent        decimal.Decimal  `json:"rent"`
	Deposit     *decimal.Decimal `json:"deposit"`
	Size        *decimal.Decimal `json:"size"`
	Bedrooms    int              `json:"bedrooms"`
	Bathrooms   int              `json:"bathrooms"`
	Status      string           `json:"status"`
	Amenities   []string         `json:"amenities"`
}

// ReceiptTenant holds the active tenant printed on a receipt
type ReceiptTenant struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	MoveInDate  time.Time  `json:"moveInDate"`
	MoveOutDate *time.Time `json:"moveOutDate"`
}

// ReceiptPayment is one line of the payment history
type ReceiptPayment struct {
	ID            uuid.UUID       `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	AmountDisplay string          `json:"amountDisplay"`
	Date          time.Time       `json:"date"`
	DueDate       time.Time       `json:"dueDate"`
	Status        string          `json:"status"`
	StatusLabel   string          `json:"statusLabel"`
	Method        string          `json:"method"`
	Notes         string          `json:"notes"`
}

// ReceiptStatistics are the derived payment totals
type ReceiptStatistics struct {
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalPaidDisplay string          `json:"totalPaidDisplay"`
	PendingCount     int             `json:"pendingCount"`
	OverdueCount     int             `json:"overdueCount"`
}

// ReceiptResponse is the read-only receipt for a room
type ReceiptResponse struct {
	Room        ReceiptRoom       `json:"room"`
	Tenant      *ReceiptTenant    `json:"tenant"`
	Payments    []ReceiptPayment  `json:"payments"`
	Statistics  ReceiptStatistics `json:"statistics"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// ToReceiptResponse converts a domain receipt
func ToReceiptResponse(r *rental.Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		Room: ReceiptRoom{
			ID:          r.Room.ID,
			Name:        r.Room.Name,
			Description: r.Room.Description,
			Address:     r.Room.Address,
			Rent:        r.Room.Rent,
			Deposit:     r.Room.Deposit,
			Size:        r.Room.Size,
			Bedrooms:    r.Room.Bedrooms,
			Bathrooms:   r.Room.Bathrooms,
			Status:      string(r.Room.Status),
			Amenities:   nonNilStrings(r.Room.Amenities),
		},
		Payments: make([]ReceiptPayment, len(r.Payments)),
		Statistics: ReceiptStatistics{
			TotalPaid:        r.Statistics.TotalPaid,
			TotalPaidDisplay: FormatAmount(r.Statistics.TotalPaid),
			PendingCount:     r.Statistics.PendingCount,
			OverdueCount:     r.Statistics.OverdueCount,
		},
		GeneratedAt: r.GeneratedAt,
	}
	if r.Tenant != nil {
		resp.Tenant = &ReceiptTenant{
			ID:          r.Tenant.ID,
			FirstName:   r.Tenant.FirstName,
			LastName:    r.Tenant.LastName,
			Email:       r.Tenant.Email,
			Phone:       r.Tenant.Phone,
			MoveInDate:  r.Tenant.MoveInDate,
			MoveOutDate: r.Tenant.MoveOutDate,
		}
	}
	for i, p := range r.Payments {
		resp.Payments[i] = ReceiptPayment{
			ID:            p.ID,
			Amount:        p.Amount,
			AmountDisplay: FormatAmount(p.Amount),
			Date:          p.Date,
			DueDate:       p.DueDate,
			Status:        string(p.Status),
			StatusLabel:   StatusLabel(string(p.Status)),
			Method:        p.Method,
			Notes:         p.Notes,
		}
	}
	return resp
}

func fixed2(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
