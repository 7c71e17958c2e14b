package rental

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptStatistics are the derived payment totals shown on a receipt
type ReceiptStatistics struct {
	TotalPaid    decimal.Decimal
	PendingCount int
	OverdueCount int
}

// Receipt is a read-only summary of a room, its active tenant and payment history
type Receipt struct {
	Room        Room
	Tenant      *Tenant
	Payments    []Payment
	Statistics  ReceiptStatistics
	GeneratedAt time.Time
}

// BuildReceipt assembles a receipt. The first ACTIVE tenant in room.Tenants becomes the
// receipt tenant; payments are ordered by paid date desc.
func BuildReceipt(room Room, payments []Payment, now time.Time) *Receipt {
	var active *Tenant
	for i := range room.Tenants {
		if room.Tenants[i].IsActive() {
			t := room.Tenants[i]
			active = &t
			break
		}
	}

	sorted := make([]Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	return &Receipt{
		Room:        room,
		Tenant:      active,
		Payments:    sorted,
		Statistics:  ComputeReceiptStatistics(sorted),
		GeneratedAt: now,
	}
}

// ComputeReceiptStatistics totals PAID amounts and counts PENDING and OVERDUE payments
func ComputeReceiptStatistics(payments []Payment) ReceiptStatistics {
	stats := ReceiptStatistics{TotalPaid: decimal.Zero}
	for _, p := range payments {
		switch p.Status {
		case PaymentStatusPaid:
			stats.TotalPaid = stats.TotalPaid.Add(p.Amount)
		case PaymentStatusPending:
			stats.PendingCount++
		case PaymentStatusOverdue:
			stats.OverdueCount++
		}
	}
	return stats
}
