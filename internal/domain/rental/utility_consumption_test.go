package rental

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rentdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestNewPeriod(t *testing.T) {
	tests := []struct {
		name    string
		month   int
		year    int
		wantErr string
	}{
		{name: "january", month: 1, year: 2025},
		{name: "december", month: 12, year: 2025},
		{name: "month zero", month: 0, year: 2025, wantErr: MsgUtilityInvalidMonth},
		{name: "month thirteen", month: 13, year: 2025, wantErr: MsgUtilityInvalidMonth},
		{name: "negative month", month: -1, year: 2025, wantErr: MsgUtilityInvalidMonth},
		{name: "year zero", month: 5, year: 0, wantErr: MsgUtilityInvalidYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPeriod(tt.month, tt.year)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.ErrorIs(t, err, shared.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Period{Month: tt.month, Year: tt.year}, p)
		})
	}
}

func TestPeriod_Previous(t *testing.T) {
	assert.Equal(t, Period{Month: 11, Year: 2025}, Period{Month: 12, Year: 2025}.Previous())
	assert.Equal(t, Period{Month: 12, Year: 2024}, Period{Month: 1, Year: 2025}.Previous())
	assert.Equal(t, Period{Month: 6, Year: 2025}, Period{Month: 7, Year: 2025}.Previous())
}

func TestConsumption(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous *decimal.Decimal
		want     string
	}{
		{name: "electric delta", current: "150", previous: decPtr("100"), want: "50.00"},
		{name: "water delta", current: "60", previous: decPtr("50"), want: "10.00"},
		{name: "previous absent", current: "150", previous: nil},
		{name: "previous zero", current: "150", previous: decPtr("0")},
		{name: "previous negative", current: "150", previous: decPtr("-5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Consumption(dec(tt.current), tt.previous)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestTotalCost(t *testing.T) {
	assert.Equal(t, "40.00", TotalCost(decPtr("25"), decPtr("15")).StringFixed(2))
	assert.Equal(t, "25.00", TotalCost(decPtr("25"), nil).StringFixed(2))
	assert.True(t, TotalCost(nil, nil).IsZero())
	assert.True(t, TotalCost(decPtr("0"), decPtr("0")).IsZero())
}

func TestNewUtilityConsumption(t *testing.T) {
	roomID := uuid.New()
	period := Period{Month: 3, Year: 2025}

	t.Run("creates record with current readings", func(t *testing.T) {
		u, err := NewUtilityConsumption(roomID, period, dec("120.5"), dec("33"))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.Equal(t, roomID, u.RoomID)
		assert.Equal(t, period, u.Period)
		assert.Nil(t, u.PreviousElectricNumber)
		assert.Nil(t, u.ElectricConsumption())
		assert.True(t, u.TotalCost().IsZero())
	})

	t.Run("fails without room", func(t *testing.T) {
		_, err := NewUtilityConsumption(uuid.Nil, period, dec("1"), dec("1"))
		require.Error(t, err)
		assert.Equal(t, MsgUtilityMissingFields, err.Error())
	})

	t.Run("fails with invalid month", func(t *testing.T) {
		_, err := NewUtilityConsumption(roomID, Period{Month: 13, Year: 2025}, dec("1"), dec("1"))
		require.Error(t, err)
		assert.Equal(t, MsgUtilityInvalidMonth, err.Error())
	})

	t.Run("fails with negative reading", func(t *testing.T) {
		_, err := NewUtilityConsumption(roomID, period, dec("-1"), dec("1"))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestUtilityConsumption_FillPreviousFrom(t *testing.T) {
	roomID := uuid.New()
	prev, err := NewUtilityConsumption(roomID, Period{Month: 11, Year: 2025}, dec("100"), dec("50"))
	require.NoError(t, err)

	t.Run("fills both readings when unset", func(t *testing.T) {
		u, err := NewUtilityConsumption(roomID, Period{Month: 12, Year: 2025}, dec("150"), dec("60"))
		require.NoError(t, err)

		u.FillPreviousFrom(prev)

		require.NotNil(t, u.PreviousElectricNumber)
		require.NotNil(t, u.PreviousWaterNumber)
		assert.True(t, u.PreviousElectricNumber.Equal(dec("100")))
		assert.True(t, u.PreviousWaterNumber.Equal(dec("50")))
		assert.Equal(t, "50.00", u.ElectricConsumption().StringFixed(2))
		assert.Equal(t, "10.00", u.WaterConsumption().StringFixed(2))
	})

	t.Run("keeps caller supplied values", func(t *testing.T) {
		u, err := NewUtilityConsumption(roomID, Period{Month: 12, Year: 2025}, dec("150"), dec("60"))
		require.NoError(t, err)
		require.NoError(t, u.SetPreviousReadings(decPtr("90"), nil))

		u.FillPreviousFrom(prev)

		assert.True(t, u.PreviousElectricNumber.Equal(dec("90")))
		assert.True(t, u.PreviousWaterNumber.Equal(dec("50")))
	})

	t.Run("nil previous record is a no-op", func(t *testing.T) {
		u, err := NewUtilityConsumption(roomID, Period{Month: 12, Year: 2025}, dec("150"), dec("60"))
		require.NoError(t, err)

		u.FillPreviousFrom(nil)

		assert.Nil(t, u.PreviousElectricNumber)
		assert.Nil(t, u.PreviousWaterNumber)
	})
}

func TestUtilityConsumption_Setters(t *testing.T) {
	u, err := NewUtilityConsumption(uuid.New(), Period{Month: 1, Year: 2025}, dec("10"), dec("5"))
	require.NoError(t, err)

	require.NoError(t, u.SetReadings(decPtr("20"), nil))
	assert.True(t, u.ElectricNumber.Equal(dec("20")))
	assert.True(t, u.WaterNumber.Equal(dec("5")))

	require.NoError(t, u.SetCosts(decPtr("25"), decPtr("15")))
	assert.Equal(t, "40.00", u.TotalCost().StringFixed(2))

	assert.Error(t, u.SetCosts(decPtr("-1"), nil))
	assert.Error(t, u.SetReadings(nil, decPtr("-3")))

	u.SetNotes("  meter replaced  ")
	assert.Equal(t, "meter replaced", u.Notes)
}
