package usecase_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"rental/internal/domain/model"
	"rental/internal/infra/db"
	infrarepo "rental/internal/infra/repository"
	"rental/internal/usecase"
	"rental/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// =====================
// fakes
// =====================

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("RSV-%04d", g.n)
}

// =====================
// env
// =====================

var staff = model.Actor{ID: 1, Name: "Alice"}

type testEnv struct {
	gdb          *gorm.DB
	products     *usecase.ProductUsecase
	reservations *usecase.ReservationUsecase
	instances    *usecase.InstanceUsecase
	auth         *usecase.AuthUsecase
	auditLogs    *usecase.AuditLogUsecase
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:", &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, zap.NewNop()))

	log := zap.NewNop()
	clock := fixedClock{now: time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)}
	tx := infrarepo.NewTxManagerGorm(gdb)
	users := infrarepo.NewUserGormRepository(gdb)

	return &testEnv{
		gdb:          gdb,
		products:     usecase.NewProductUsecase(tx, infrarepo.NewProductGormRepository(gdb), infrarepo.NewStockMovementGormRepository(gdb), clock, log),
		reservations: usecase.NewReservationUsecase(tx, &seqIDs{}, clock, log),
		instances:    usecase.NewInstanceUsecase(tx, clock, log),
		auth:         usecase.NewAuthUsecase(users, validator.NewAuthValidator(users), "test-secret", 15*time.Minute, clock, log),
		auditLogs:    usecase.NewAuditLogUsecase(infrarepo.NewAuditLogGormRepository(gdb), log),
	}
}

func (e *testEnv) seedProduct(t *testing.T, code string, qty, threshold int64, price string) model.Product {
	t.Helper()
	p := model.Product{
		Code:              code,
		Name:              "Product " + code,
		Category:          "furniture",
		UnitPrice:         decimal.RequireFromString(price),
		InitialQuantity:   qty,
		AvailableQuantity: qty,
		CriticalThreshold: threshold,
	}
	require.NoError(t, e.gdb.Create(&p).Error)
	return p
}

func (e *testEnv) available(t *testing.T, productID int64) int64 {
	t.Helper()
	var p model.Product
	require.NoError(t, e.gdb.First(&p, productID).Error)
	return p.AvailableQuantity
}

func (e *testEnv) movements(t *testing.T, productID int64) []model.StockMovement {
	t.Helper()
	var out []model.StockMovement
	require.NoError(t, e.gdb.Where("product_id = ?", productID).Order("id").Find(&out).Error)
	return out
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !assert.True(t, ok, "expected HTTPError, got %v", err) {
		return
	}
	assert.Equal(t, status, he.Status, he.Message)
}

func TestHTTPError_As(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", usecase.NewHTTPError(409, "conflict"))

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, 409, he.Status)
	assert.Equal(t, "409: conflict", he.Error())

	_, ok = usecase.AsHTTPError(errors.New("plain"))
	assert.False(t, ok)
}

func TestSystemClockAndUUIDGenerator(t *testing.T) {
	assert.WithinDuration(t, time.Now(), usecase.SystemClock{}.Now(), time.Second)

	a, b := usecase.UUIDGenerator{}.NewID(), usecase.UUIDGenerator{}.NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
