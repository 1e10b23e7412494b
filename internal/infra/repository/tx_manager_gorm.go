package repository

import (
	"context"

	repo "rental/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	products     repo.ProductRepository
	inventory    repo.InventoryRepository
	instances    repo.ProductInstanceRepository
	movements    repo.StockMovementRepository
	reservations repo.ReservationRepository
	auditLogs    repo.AuditLogRepository
}

func (r *txReposGorm) Products() repo.ProductRepository          { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository       { return r.inventory }
func (r *txReposGorm) Instances() repo.ProductInstanceRepository { return r.instances }
func (r *txReposGorm) Movements() repo.StockMovementRepository   { return r.movements }
func (r *txReposGorm) Reservations() repo.ReservationRepository  { return r.reservations }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository        { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//rebuild every repository on top of tx
		r := &txReposGorm{
			products:     NewProductGormRepository(tx),
			inventory:    NewInventoryGormRepository(tx),
			instances:    NewProductInstanceGormRepository(tx),
			movements:    NewStockMovementGormRepository(tx),
			reservations: NewReservationGormRepository(tx),
			auditLogs:    NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
