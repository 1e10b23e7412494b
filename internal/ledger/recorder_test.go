package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental/internal/domain/model"
	repo "rental/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(ctx context.Context, mv model.StockMovement) (model.StockMovement, error) {
	args := m.Called(ctx, mv)
	return args.Get(0).(model.StockMovement), args.Error(1)
}

// saved returns the single movement handed to Save
func (m *mockStore) saved(t *testing.T) model.StockMovement {
	t.Helper()
	require.Len(t, m.Calls, 1)
	return m.Calls[0].Arguments.Get(1).(model.StockMovement)
}

type mockFinder struct {
	mock.Mock
}

func (m *mockFinder) FindByID(ctx context.Context, id int64) (model.Reservation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Reservation), args.Error(1)
}

var (
	fixedNow = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	tent     = model.Product{ID: 7, Code: "TENT-6X12", Name: "Tent 6x12", AvailableQuantity: 40, InitialQuantity: 50}
	staff    = model.Actor{ID: 3, Name: "Camille"}
)

func newRecorder(t *testing.T) (*Recorder, *mockStore, *mockFinder, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	store := new(mockStore)
	finder := new(mockFinder)
	r := NewRecorder(store, finder, zap.New(core))
	r.now = func() time.Time { return fixedNow }
	return r, store, finder, logs
}

func int64p(v int64) *int64 { return &v }

func TestRecordMovement_CopiesCallerValues(t *testing.T) {
	r, store, finder, logs := newRecorder(t)
	store.On("Save", mock.Anything, mock.Anything).Return(model.StockMovement{ID: 1}, nil)

	err := r.RecordMovement(context.Background(), tent, model.MovementReturn, 5, 35, 40, "return R-1", staff, int64p(12))
	require.NoError(t, err)

	m := store.saved(t)
	assert.Equal(t, int64(7), m.ProductID)
	assert.Equal(t, model.MovementReturn, m.Type)
	assert.Equal(t, int64(5), m.Quantity)
	assert.Equal(t, int64(35), m.QuantityBefore)
	assert.Equal(t, int64(40), m.QuantityAfter)
	assert.Equal(t, "return R-1", m.Reason)
	assert.Equal(t, int64(3), m.ActorID)
	assert.Equal(t, "Camille", m.ActorName)
	assert.Equal(t, fixedNow, m.CreatedAt)
	require.NotNil(t, m.ReservationID)
	assert.Equal(t, int64(12), *m.ReservationID)

	//not a RESERVATION movement: no lookup, no dates
	assert.Nil(t, m.ReservationStart)
	assert.Nil(t, m.ReservationEnd)
	finder.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	assert.Equal(t, 0, logs.Len())
}

func TestRecordMovement_ReservationWithoutID(t *testing.T) {
	r, store, finder, _ := newRecorder(t)
	store.On("Save", mock.Anything, mock.Anything).Return(model.StockMovement{}, nil)

	require.NoError(t, r.RecordMovement(context.Background(), tent, model.MovementReservation, 2, 40, 38, "walk-in", staff, nil))

	m := store.saved(t)
	assert.Nil(t, m.ReservationID)
	assert.Nil(t, m.ReservationStart)
	assert.Nil(t, m.ReservationEnd)
	finder.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestRecordMovement_EnrichesReservationDates(t *testing.T) {
	r, store, finder, logs := newRecorder(t)
	start := time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)

	finder.On("FindByID", mock.Anything, int64(12)).Return(model.Reservation{ID: 12, StartDate: start, EndDate: end}, nil)
	store.On("Save", mock.Anything, mock.Anything).Return(model.StockMovement{}, nil)

	require.NoError(t, r.RecordMovement(context.Background(), tent, model.MovementReservation, 2, 40, 38, "reservation", staff, int64p(12)))

	m := store.saved(t)
	require.NotNil(t, m.ReservationStart)
	require.NotNil(t, m.ReservationEnd)
	assert.True(t, start.Equal(*m.ReservationStart))
	assert.True(t, end.Equal(*m.ReservationEnd))
	assert.Equal(t, 0, logs.Len())
	finder.AssertExpectations(t)
}

func TestRecordMovement_UnknownReservationStillSaves(t *testing.T) {
	r, store, finder, logs := newRecorder(t)
	finder.On("FindByID", mock.Anything, int64(99)).Return(model.Reservation{}, repo.ErrNotFound)
	store.On("Save", mock.Anything, mock.Anything).Return(model.StockMovement{}, nil)

	require.NoError(t, r.RecordMovement(context.Background(), tent, model.MovementReservation, 2, 40, 38, "reservation", staff, int64p(99)))

	m := store.saved(t)
	assert.Nil(t, m.ReservationStart)
	assert.Nil(t, m.ReservationEnd)
	require.NotNil(t, m.ReservationID)
	assert.Equal(t, int64(99), *m.ReservationID)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, int64(99), entry.ContextMap()["reservation_id"])
}

func TestRecordMovement_LookupErrorStillSaves(t *testing.T) {
	r, store, finder, logs := newRecorder(t)
	finder.On("FindByID", mock.Anything, int64(12)).Return(model.Reservation{}, errors.New("connection reset"))
	store.On("Save", mock.Anything, mock.Anything).Return(model.StockMovement{}, nil)

	require.NoError(t, r.RecordMovement(context.Background(), tent, model.MovementReservation, 1, 40, 39, "", staff, int64p(12)))

	m := store.saved(t)
	assert.Nil(t, m.ReservationStart)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "connection reset", logs.All()[0].ContextMap()["error"])
}

func TestRecordMovement_SaveErrorPropagates(t *testing.T) {
	r, store, _, _ := newRecorder(t)
	dbErr := errors.New("unique violation")
	store.On("Save", mock.Anything, mock.Anything).Return(model.StockMovement{}, dbErr)

	err := r.RecordMovement(context.Background(), tent, model.MovementAdjustment, 3, 40, 43, "count", staff, nil)
	assert.ErrorIs(t, err, dbErr)
}

func TestRecordMovement_RejectsTransientProduct(t *testing.T) {
	r, store, _, _ := newRecorder(t)

	err := r.RecordMovement(context.Background(), model.Product{Code: "NEW"}, model.MovementAdjustment, 1, 0, 1, "", staff, nil)
	assert.ErrorIs(t, err, ErrProductNotPersisted)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRecordInstanceMovement_ComputesAfterFromProduct(t *testing.T) {
	r, store, finder, _ := newRecorder(t)
	store.On("Save", mock.Anything, mock.Anything).Return(model.StockMovement{}, nil)
	unit := model.ProductInstance{ID: 21, SerialNumber: "TENT-6X12-0004", ProductID: 7}

	require.NoError(t, r.RecordInstanceMovement(context.Background(), tent, model.MovementMaintenanceIn, -1, "torn canvas", staff, unit))

	m := store.saved(t)
	assert.Equal(t, int64(40), m.QuantityBefore)
	assert.Equal(t, int64(39), m.QuantityAfter)
	assert.Equal(t, int64(1), m.Quantity)
	require.NotNil(t, m.InstanceID)
	assert.Equal(t, int64(21), *m.InstanceID)
	assert.Equal(t, "TENT-6X12-0004", m.InstanceCode)
	assert.Nil(t, m.ReservationID)
	assert.Nil(t, m.ReservationStart)
	finder.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestRecordInstanceMovement_PositiveQuantity(t *testing.T) {
	r, store, _, _ := newRecorder(t)
	store.On("Save", mock.Anything, mock.Anything).Return(model.StockMovement{}, nil)

	require.NoError(t, r.RecordInstanceMovement(context.Background(), tent, model.MovementMaintenanceOut, 1, "", staff, model.ProductInstance{ID: 21}))

	m := store.saved(t)
	assert.Equal(t, int64(41), m.QuantityAfter)
	assert.Equal(t, int64(1), m.Quantity)
}

// The two recorders disagree on sign handling: the quantity variant stores
// whatever it is given, the instance variant stores the magnitude and derives
// after from a signed quantity. Both contracts are kept as they are.
func TestRecorders_SignHandlingDiffers(t *testing.T) {
	r, store, _, _ := newRecorder(t)
	store.On("Save", mock.Anything, mock.Anything).Return(model.StockMovement{}, nil)
	ctx := context.Background()

	require.NoError(t, r.RecordMovement(ctx, tent, model.MovementAdjustment, -2, 40, 38, "", staff, nil))
	require.NoError(t, r.RecordInstanceMovement(ctx, tent, model.MovementRetirement, -2, "", staff, model.ProductInstance{ID: 1}))

	require.Len(t, store.Calls, 2)
	quantityVariant := store.Calls[0].Arguments.Get(1).(model.StockMovement)
	instanceVariant := store.Calls[1].Arguments.Get(1).(model.StockMovement)

	assert.Equal(t, int64(-2), quantityVariant.Quantity)
	assert.Equal(t, int64(2), instanceVariant.Quantity)
	assert.Equal(t, quantityVariant.QuantityAfter, instanceVariant.QuantityAfter)
}

func TestRecordInstanceMovement_SaveErrorPropagates(t *testing.T) {
	r, store, _, _ := newRecorder(t)
	dbErr := errors.New("disk full")
	store.On("Save", mock.Anything, mock.Anything).Return(model.StockMovement{}, dbErr)

	err := r.RecordInstanceMovement(context.Background(), tent, model.MovementMaintenanceIn, -1, "", staff, model.ProductInstance{ID: 1})
	assert.ErrorIs(t, err, dbErr)
}

func TestNewRecorder_NilLogger(t *testing.T) {
	finder := new(mockFinder)
	store := new(mockStore)
	finder.On("FindByID", mock.Anything, int64(5)).Return(model.Reservation{}, repo.ErrNotFound)
	store.On("Save", mock.Anything, mock.Anything).Return(model.StockMovement{}, nil)

	r := NewRecorder(store, finder, nil)
	assert.NoError(t, r.RecordMovement(context.Background(), tent, model.MovementReservation, 1, 1, 0, "", staff, int64p(5)))
}
