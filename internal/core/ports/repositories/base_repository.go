package repositories

import (
	"context"
)

// Repositories groups the per-aggregate repositories bound to one storage scope.
// Outside a unit of work each call commits on its own; inside one every call
// shares the same atomic scope.
type Repositories interface {
	Tenants() TenantRepository
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Sequences() SequenceRepository
	Variances() CostVarianceRepository
}

// Tx is the set of repositories bound to an open unit of work.
type Tx interface {
	Repositories
}

// UnitOfWork runs a function inside one atomic scope.
//
// WithinTx commits when fn returns nil and rolls back every write made through
// the Tx otherwise, including balance mutations and consumed sequence numbers.
// Implementations may re-run fn when the store reports a transient conflict,
// so fn must not have side effects outside the Tx.
type UnitOfWork interface {
	Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
