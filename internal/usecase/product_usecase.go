package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"rental/internal/domain/model"
	repo "rental/internal/repository"
	"rental/internal/view"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductUsecase struct {
	tx          repo.TransactionManager
	productRepo repo.ProductRepository
	movements   repo.StockMovementRepository
	clock       Clock
	log         *zap.Logger
}

func NewProductUsecase(
	tx repo.TransactionManager,
	productRepo repo.ProductRepository,
	movements repo.StockMovementRepository,
	clock Clock,
	log *zap.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		tx:          tx,
		productRepo: productRepo,
		movements:   movements,
		clock:       clock,
		log:         log,
	}
}

type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
}

type ProductListOutput struct {
	Items []view.ProductView `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: strings.TrimSpace(in.Category),
	})
	if err != nil {
		u.log.Error("list products", zap.Error(err))
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: view.ToProductViews(items),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID int64) (view.ProductView, error) {
	if productID <= 0 {
		return view.ProductView{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return view.ProductView{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		u.log.Error("find product", zap.Int64("product_id", productID), zap.Error(err))
		return view.ProductView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return view.ToProductView(p), nil
}

type CreateProductInput struct {
	Code              string
	Name              string
	Category          string
	UnitPrice         decimal.Decimal
	InitialQuantity   int64
	CriticalThreshold int64
}

// CreateProduct adds a catalog entry; all of its initial stock is available.
func (u *ProductUsecase) CreateProduct(ctx context.Context, actor model.Actor, in CreateProductInput) (view.ProductView, error) {
	if actor.ID <= 0 {
		return view.ProductView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || len(code) > 64 {
		return view.ProductView{}, NewHTTPError(http.StatusBadRequest, "invalid code")
	}
	if name == "" {
		return view.ProductView{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.UnitPrice.IsNegative() {
		return view.ProductView{}, NewHTTPError(http.StatusBadRequest, "unit_price must be >= 0")
	}
	if in.InitialQuantity < 0 {
		return view.ProductView{}, NewHTTPError(http.StatusBadRequest, "initial_quantity must be >= 0")
	}
	if in.CriticalThreshold < 0 {
		return view.ProductView{}, NewHTTPError(http.StatusBadRequest, "critical_threshold must be >= 0")
	}

	var out view.ProductView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		_, err := r.Products().FindByCode(ctx, code)
		if err == nil {
			return NewHTTPError(http.StatusConflict, "code already exists")
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p, err := r.Products().Create(ctx, model.Product{
			Code:              code,
			Name:              name,
			Category:          strings.TrimSpace(in.Category),
			UnitPrice:         in.UnitPrice,
			InitialQuantity:   in.InitialQuantity,
			AvailableQuantity: in.InitialQuantity,
			CriticalThreshold: in.CriticalThreshold,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := audit(ctx, r, actor, model.AuditActionCreateProduct, model.AuditResourceProduct, p.ID,
			nil, map[string]interface{}{"code": p.Code, "initial_quantity": p.InitialQuantity}, u.clock.Now()); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = view.ToProductView(p)
		return nil
	})
	if err != nil {
		return view.ProductView{}, err
	}
	return out, nil
}

// AdjustStock sets the available quantity after a physical count and
// records the difference as an ADJUSTMENT movement.
func (u *ProductUsecase) AdjustStock(ctx context.Context, actor model.Actor, productID int64, newAvailable int64, reason string) (view.ProductView, error) {
	if actor.ID <= 0 {
		return view.ProductView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return view.ProductView{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newAvailable < 0 {
		return view.ProductView{}, NewHTTPError(http.StatusBadRequest, "available_quantity must be >= 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return view.ProductView{}, NewHTTPError(http.StatusBadRequest, "reason required")
	}

	var out view.ProductView
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before := p.AvailableQuantity
		if before == newAvailable {
			out = view.ToProductView(p)
			return nil
		}

		if err := r.Inventory().SetAvailable(ctx, productID, newAvailable); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		delta := newAvailable - before
		if delta < 0 {
			delta = -delta
		}
		if err := recorderFor(r, u.log).RecordMovement(ctx, p, model.MovementAdjustment, delta, before, newAvailable, reason, actor, nil); err != nil {
			u.log.Error("record adjustment", zap.Int64("product_id", productID), zap.Error(err))
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := audit(ctx, r, actor, model.AuditActionUpdateStock, model.AuditResourceProduct, productID,
			map[string]int64{"available_quantity": before}, map[string]int64{"available_quantity": newAvailable}, u.clock.Now()); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p.AvailableQuantity = newAvailable
		out = view.ToProductView(p)
		return nil
	})
	if err != nil {
		return view.ProductView{}, err
	}
	return out, nil
}

type ListMovementsInput struct {
	ProductID     *int64
	ReservationID *int64
	InstanceID    *int64
	Type          string
	Limit         int
	Offset        int
}

func (u *ProductUsecase) ListMovements(ctx context.Context, in ListMovementsInput) ([]*view.MovementView, error) {
	if in.Limit < 0 || in.Limit > 200 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Offset < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}

	f := repo.MovementFilter{
		ProductID:     in.ProductID,
		ReservationID: in.ReservationID,
		InstanceID:    in.InstanceID,
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if t := strings.ToUpper(strings.TrimSpace(in.Type)); t != "" {
		mt, ok := parseMovementType(t)
		if !ok {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid type")
		}
		f.Type = &mt
	}

	movements, err := u.movements.List(ctx, f)
	if err != nil {
		u.log.Error("list movements", zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return view.ToMovementViews(movements), nil
}

func (u *ProductUsecase) CriticalProducts(ctx context.Context) ([]view.ProductView, error) {
	products, err := u.productRepo.ListCritical(ctx)
	if err != nil {
		u.log.Error("list critical products", zap.Error(err))
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return view.ToProductViews(products), nil
}

func parseMovementType(s string) (model.MovementType, bool) {
	switch mt := model.MovementType(s); mt {
	case model.MovementReservation, model.MovementReturn, model.MovementCancellation,
		model.MovementAdjustment, model.MovementMaintenanceIn, model.MovementMaintenanceOut,
		model.MovementRetirement:
		return mt, true
	}
	return "", false
}
