package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormOccupancyMetricsProvider implements OccupancyMetricsProvider using GORM.
// It aggregates the rooms table directly.
type GormOccupancyMetricsProvider struct {
	db *gorm.DB
}

// NewGormOccupancyMetricsProvider creates a new GormOccupancyMetricsProvider.
func NewGormOccupancyMetricsProvider(db *gorm.DB) *GormOccupancyMetricsProvider {
	return &GormOccupancyMetricsProvider{db: db}
}

// CountRoomsByStatus returns the number of rooms per status.
func (p *GormOccupancyMetricsProvider) CountRoomsByStatus(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("rooms").
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Status] = r.Count
	}
	return m, nil
}
