package rental

import (
	"context"
	"errors"

	"github.com/rentdesk/backend/internal/domain/rental"
)

// ErrConcurrentUpdate is returned by a transaction scope when a SERIALIZABLE
// transaction lost a conflict with a concurrent one and was rolled back.
var ErrConcurrentUpdate = errors.New("transaction aborted by a concurrent update")

// TransactionScope provides transactional access to rental repositories.
// All repository operations inside fn share one database transaction and are
// committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a transaction at the database default isolation level.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error

	// ExecuteSerializable runs fn within a SERIALIZABLE transaction.
	// A serialization failure is reported as ErrConcurrentUpdate.
	ExecuteSerializable(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all rental repositories within a transaction.
type TransactionalRepositories interface {
	Rooms() rental.RoomRepository
	Tenants() rental.TenantRepository
	Payments() rental.PaymentRepository
	Utilities() rental.UtilityConsumptionRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// This is useful for testing services without a database.
type NoOpTransactionScope struct {
	repos noOpRepositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
// Any of them may be nil when the service under test does not use it.
func NewNoOpTransactionScope(
	rooms rental.RoomRepository,
	tenants rental.TenantRepository,
	payments rental.PaymentRepository,
	utilities rental.UtilityConsumptionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: noOpRepositories{
		rooms:     rooms,
		tenants:   tenants,
		payments:  payments,
		utilities: utilities,
	}}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(&s.repos)
}

// ExecuteSerializable runs fn without a transaction
func (s *NoOpTransactionScope) ExecuteSerializable(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return s.Execute(ctx, fn)
}

type noOpRepositories struct {
	rooms     rental.RoomRepository
	tenants   rental.TenantRepository
	payments  rental.PaymentRepository
	utilities rental.UtilityConsumptionRepository
}

func (r *noOpRepositories) Rooms() rental.RoomRepository                  { return r.rooms }
func (r *noOpRepositories) Tenants() rental.TenantRepository              { return r.tenants }
func (r *noOpRepositories) Payments() rental.PaymentRepository            { return r.payments }
func (r *noOpRepositories) Utilities() rental.UtilityConsumptionRepository { return r.utilities }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*noOpRepositories)(nil)
)
