package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "telemetry:query_start"

// DBConfig controls GORM instrumentation.
type DBConfig struct {
	// Tracing registers the otelgorm plugin so each statement becomes a span.
	Tracing bool
	// DBName is reported as db.name on spans.
	DBName string
	// IncludeQueryVariables keeps bound values in db.statement. Development only.
	IncludeQueryVariables bool
	// SlowQueryThreshold flags statements slower than this on their span. Zero disables it.
	SlowQueryThreshold time.Duration
	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider
}

// DBMetrics records statement latency and connection pool usage.
type DBMetrics struct {
	queryDuration *Histogram
	queryErrors   *Counter
	registration  metric.Registration
}

// InstrumentGorm installs tracing and, when meter is non-nil, query and pool metrics on db.
func InstrumentGorm(db *gorm.DB, cfg DBConfig, meter metric.Meter, logger *zap.Logger) (*DBMetrics, error) {
	var m *DBMetrics
	if meter != nil {
		var err error
		if m, err = newDBMetrics(db, meter); err != nil {
			return nil, err
		}
	}

	// registered ahead of otelgorm so the after hooks run while the statement span is open
	if err := registerQueryCallbacks(db, m, cfg.SlowQueryThreshold); err != nil {
		return nil, err
	}

	if cfg.Tracing {
		// pool stats are reported by DBMetrics
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName), otelgorm.WithoutMetrics()}
		if cfg.TracerProvider != nil {
			opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
		}
		if !cfg.IncludeQueryVariables {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return nil, fmt.Errorf("register otelgorm: %w", err)
		}
	}

	logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.Tracing),
		zap.Bool("metrics", m != nil),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return m, nil
}

func newDBMetrics(db *gorm.DB, meter metric.Meter) (*DBMetrics, error) {
	m := &DBMetrics{}
	var err error

	m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	m.queryErrors, err = NewCounter(meter, "db_query_errors_total", "Total number of failed database statements", "{statements}")
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	connections, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Database connections by state"),
		metric.WithUnit("{connections}"))
	if err != nil {
		return nil, err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Total number of waits for a free connection"),
		metric.WithUnit("{waits}"))
	if err != nil {
		return nil, err
	}

	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(connections, int64(stats.InUse), metric.WithAttributes(AttrDBPoolState.String("in_use")))
		o.ObserveInt64(connections, int64(stats.Idle), metric.WithAttributes(AttrDBPoolState.String("idle")))
		o.ObserveInt64(connections, int64(stats.MaxOpenConnections), metric.WithAttributes(AttrDBPoolState.String("max")))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, connections, waits)
	if err != nil {
		return nil, fmt.Errorf("register pool callback: %w", err)
	}
	return m, nil
}

// Stop unregisters the pool callback.
func (m *DBMetrics) Stop() error {
	if m == nil || m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}

func registerQueryCallbacks(db *gorm.DB, m *DBMetrics, slow time.Duration) error {
	cb := db.Callback()
	ops := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", func(n string, f func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Create().After("gorm:create").Register(n, f) }},
		{"query", func(n string, f func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Query().After("gorm:query").Register(n, f) }},
		{"update", func(n string, f func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Update().After("gorm:update").Register(n, f) }},
		{"delete", func(n string, f func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Delete().After("gorm:delete").Register(n, f) }},
		{"row", func(n string, f func(*gorm.DB)) error { return cb.Row().Before("gorm:row").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Row().After("gorm:row").Register(n, f) }},
		{"raw", func(n string, f func(*gorm.DB)) error { return cb.Raw().Before("gorm:raw").Register(n, f) },
			func(n string, f func(*gorm.DB)) error { return cb.Raw().After("gorm:raw").Register(n, f) }},
	}

	for _, o := range ops {
		if err := o.before("telemetry:before_"+o.op, markQueryStart); err != nil {
			return fmt.Errorf("register %s before callback: %w", o.op, err)
		}
		if err := o.after("telemetry:after_"+o.op, afterQuery(o.op, m, slow)); err != nil {
			return fmt.Errorf("register %s after callback: %w", o.op, err)
		}
	}
	return nil
}

func markQueryStart(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func afterQuery(op string, m *DBMetrics, slow time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		failed := db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound)

		if m != nil {
			attrs := []attribute.KeyValue{AttrDBOperation.String(op), AttrDBTable.String(db.Statement.Table)}
			m.queryDuration.RecordDuration(ctx, elapsed, attrs...)
			if failed {
				m.queryErrors.Inc(ctx, attrs...)
			}
		}

		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		if failed {
			span.SetStatus(codes.Error, db.Error.Error())
		}
		if slow > 0 && elapsed > slow {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
