package repository

import "context"

// Repositories bound to one transaction
type TxRepos interface {
	Products() ProductRepository
	Inventory() InventoryRepository
	Instances() ProductInstanceRepository
	Movements() StockMovementRepository
	Reservations() ReservationRepository
	AuditLogs() AuditLogRepository
}

// Hides begin/commit/rollback from usecases.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
