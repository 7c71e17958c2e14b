package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// RentalMetrics provides business metrics for the rental domain.
// It counts leasing and billing activity and tracks room occupancy.
type RentalMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	roomCreatedTotal     *Counter
	tenantMovedInTotal   *Counter
	tenantRemovedTotal   *Counter
	paymentTotal         *Counter
	paymentAmountTotal   *Counter
	utilityRecordedTotal *Counter
	utilityConflictTotal *Counter

	// Gauge metrics (point-in-time values)
	roomsByStatus *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	occupancyProvider OccupancyMetricsProvider
}

// OccupancyMetricsProvider provides room occupancy data for periodic metrics collection.
// This keeps the telemetry layer independent from the rental repositories.
type OccupancyMetricsProvider interface {
	// CountRoomsByStatus returns the number of rooms per status
	CountRoomsByStatus(ctx context.Context) (map[string]int64, error)
}

// RentalMetricsConfig holds configuration for rental metrics.
type RentalMetricsConfig struct {
	Meter             metric.Meter
	Logger            *zap.Logger
	OccupancyProvider OccupancyMetricsProvider
}

// NewRentalMetrics creates a new RentalMetrics instance.
func NewRentalMetrics(cfg RentalMetricsConfig) (*RentalMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rm := &RentalMetrics{
		meter:             cfg.Meter,
		logger:            logger,
		stopChan:          make(chan struct{}),
		occupancyProvider: cfg.OccupancyProvider,
	}

	counters := []struct {
		target      **Counter
		name        string
		description string
		unit        string
	}{
		{&rm.roomCreatedTotal, "rentdesk_room_created_total", "Total number of rooms created", "{rooms}"},
		{&rm.tenantMovedInTotal, "rentdesk_tenant_moved_in_total", "Total number of tenants moved in", "{tenants}"},
		{&rm.tenantRemovedTotal, "rentdesk_tenant_removed_total", "Total number of tenants removed", "{tenants}"},
		{&rm.paymentTotal, "rentdesk_payment_total", "Total number of payments recorded", "{payments}"},
		{&rm.paymentAmountTotal, "rentdesk_payment_amount_total", "Total recorded payment amount in cents", "{cents}"},
		{&rm.utilityRecordedTotal, "rentdesk_utility_recorded_total", "Total number of utility readings recorded", "{readings}"},
		{&rm.utilityConflictTotal, "rentdesk_utility_conflict_total", "Total number of rejected duplicate utility readings", "{readings}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.description, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	var err error
	rm.roomsByStatus, err = NewGauge(
		cfg.Meter,
		"rentdesk_rooms",
		"Current number of rooms by status",
		"{rooms}",
	)
	if err != nil {
		return nil, err
	}

	return rm, nil
}

// RecordRoomCreated records a room creation
func (rm *RentalMetrics) RecordRoomCreated(ctx context.Context) {
	rm.roomCreatedTotal.Inc(ctx)
}

// RecordTenantMovedIn records a new lease
func (rm *RentalMetrics) RecordTenantMovedIn(ctx context.Context) {
	rm.tenantMovedInTotal.Inc(ctx)
}

// RecordTenantRemoved records a tenant deletion
func (rm *RentalMetrics) RecordTenantRemoved(ctx context.Context) {
	rm.tenantRemovedTotal.Inc(ctx)
}

// RecordPayment records a payment and its amount, labelled by payment status.
// The amount is recorded in cents.
func (rm *RentalMetrics) RecordPayment(ctx context.Context, status string, amount decimal.Decimal) {
	attrs := []attribute.KeyValue{AttrPaymentStatus.String(status)}
	rm.paymentTotal.Inc(ctx, attrs...)
	rm.paymentAmountTotal.Add(ctx, amount.Mul(decimal.NewFromInt(100)).IntPart(), attrs...)
}

// RecordUtilityRecorded records an accepted utility reading
func (rm *RentalMetrics) RecordUtilityRecorded(ctx context.Context) {
	rm.utilityRecordedTotal.Inc(ctx)
}

// RecordUtilityConflict records a utility reading rejected as a duplicate period
func (rm *RentalMetrics) RecordUtilityConflict(ctx context.Context) {
	rm.utilityConflictTotal.Inc(ctx)
}

// RecordRoomsByStatus records the current room count for a status
func (rm *RentalMetrics) RecordRoomsByStatus(ctx context.Context, status string, count int64) {
	rm.roomsByStatus.Record(ctx, count, AttrRoomStatus.String(status))
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of the occupancy gauge.
// This is non-blocking - use Stop() to stop collection.
func (rm *RentalMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	rm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go rm.runPeriodicCollection(ctx, interval)
	})
}

func (rm *RentalMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	rm.collectOccupancy(ctx)

	for {
		select {
		case <-rm.stopChan:
			rm.logger.Info("Stopping periodic rental metrics collection")
			return
		case <-ctx.Done():
			rm.logger.Info("Context cancelled, stopping periodic rental metrics collection")
			return
		case <-ticker.C:
			rm.collectOccupancy(ctx)
		}
	}
}

func (rm *RentalMetrics) collectOccupancy(ctx context.Context) {
	if rm.occupancyProvider == nil {
		rm.logger.Debug("No occupancy provider configured, skipping occupancy metrics collection")
		return
	}

	counts, err := rm.occupancyProvider.CountRoomsByStatus(ctx)
	if err != nil {
		rm.logger.Warn("Failed to count rooms by status", zap.Error(err))
		return
	}
	for status, count := range counts {
		rm.RecordRoomsByStatus(ctx, status, count)
	}
}

// Stop stops the periodic collection.
func (rm *RentalMetrics) Stop() {
	rm.stopOnce.Do(func() {
		close(rm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewRentalMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
