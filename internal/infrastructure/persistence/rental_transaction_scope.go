package persistence

import (
	"context"
	"database/sql"
	"fmt"

	apprental "github.com/rentdesk/backend/internal/application/rental"
	"github.com/rentdesk/backend/internal/domain/rental"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apprental.TransactionalRepositories) error) error {
	return s.run(ctx, nil, fn)
}

// ExecuteSerializable runs the given function within a SERIALIZABLE transaction.
func (s *GormTransactionScope) ExecuteSerializable(ctx context.Context, fn func(repos apprental.TransactionalRepositories) error) error {
	return s.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (s *GormTransactionScope) run(ctx context.Context, opts *sql.TxOptions, fn func(repos apprental.TransactionalRepositories) error) error {
	var txOpts []*sql.TxOptions
	if opts != nil {
		txOpts = append(txOpts, opts)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	}, txOpts...)
	if isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", apprental.ErrConcurrentUpdate, err)
	}
	return err
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Rooms returns the room repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Rooms() rental.RoomRepository {
	return NewGormRoomRepository(r.tx)
}

// Tenants returns the tenant repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Tenants() rental.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

// Payments returns the payment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Payments() rental.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// Utilities returns the utility consumption repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Utilities() rental.UtilityConsumptionRepository {
	return NewGormUtilityConsumptionRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ apprental.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ apprental.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
