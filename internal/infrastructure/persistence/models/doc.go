// Package models contains GORM-specific persistence models that map to database tables.
// Domain entities stay free of GORM tags; repositories convert with ToDomain / FromDomain.
//
// Tables:
//   - rooms
//   - tenants (room_id -> rooms)
//   - payments (tenant_id -> tenants)
//   - utility_consumptions (room_id -> rooms, unique on room_id, month, year)
package models
