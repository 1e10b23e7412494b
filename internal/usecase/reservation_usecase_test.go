package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"rental/internal/domain/model"
	"rental/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reserveInput(lines ...usecase.ReserveLineInput) usecase.ReserveInput {
	return usecase.ReserveInput{
		CustomerName: "Wedding Dupont",
		StartDate:    day("2026-06-01"),
		EndDate:      day("2026-06-03"),
		Lines:        lines,
	}
}

func TestReservationUsecase_Reserve_RecordsMovementWithPeriod(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	chair := env.seedProduct(t, "CHAIR", 10, 2, "12.50")

	out, err := env.reservations.Reserve(ctx, staff, reserveInput(usecase.ReserveLineInput{ProductID: chair.ID, Quantity: 3}))
	require.NoError(t, err)

	assert.Equal(t, "RSV-0001", out.Reference)
	assert.Equal(t, model.ReservationStatusConfirmed, out.Status)
	assert.Equal(t, int64(3), out.TotalUnits)
	assert.True(t, decimal.RequireFromString("112.50").Equal(out.TotalAmount), out.TotalAmount.String())
	require.Len(t, out.Lines, 1)
	assert.Equal(t, int64(3), out.Lines[0].Days)

	assert.Equal(t, int64(7), env.available(t, chair.ID))

	mv := env.movements(t, chair.ID)
	require.Len(t, mv, 1)
	assert.Equal(t, model.MovementReservation, mv[0].Type)
	assert.Equal(t, int64(3), mv[0].Quantity)
	assert.Equal(t, int64(10), mv[0].QuantityBefore)
	assert.Equal(t, int64(7), mv[0].QuantityAfter)
	assert.Equal(t, staff.ID, mv[0].ActorID)
	assert.Equal(t, staff.Name, mv[0].ActorName)
	require.NotNil(t, mv[0].ReservationID)
	assert.Equal(t, out.ID, *mv[0].ReservationID)
	require.NotNil(t, mv[0].ReservationStart)
	require.NotNil(t, mv[0].ReservationEnd)
	assert.Equal(t, "2026-06-01", mv[0].ReservationStart.Format("2006-01-02"))
	assert.Equal(t, "2026-06-03", mv[0].ReservationEnd.Format("2006-01-02"))
}

func TestReservationUsecase_Reserve_PeriodSpansAllLines(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	chair := env.seedProduct(t, "CHAIR", 10, 0, "2")
	table := env.seedProduct(t, "TABLE", 4, 0, "10")

	late, lateEnd := day("2026-06-02"), day("2026-06-06")
	out, err := env.reservations.Reserve(ctx, staff, reserveInput(
		usecase.ReserveLineInput{ProductID: chair.ID, Quantity: 8},
		usecase.ReserveLineInput{ProductID: table.ID, Quantity: 1, StartDate: &late, EndDate: &lateEnd},
	))
	require.NoError(t, err)
	assert.Equal(t, "2026-06-01", out.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2026-06-06", out.EndDate.Format("2006-01-02"))

	// 8*2*3 + 1*10*5
	assert.True(t, decimal.NewFromInt(98).Equal(out.TotalAmount), out.TotalAmount.String())

	for _, id := range []int64{chair.ID, table.ID} {
		mv := env.movements(t, id)
		require.Len(t, mv, 1)
		require.NotNil(t, mv[0].ReservationEnd)
		assert.Equal(t, "2026-06-06", mv[0].ReservationEnd.Format("2006-01-02"))
	}
}

func TestReservationUsecase_Reserve_OutOfStockRollsBack(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	chair := env.seedProduct(t, "CHAIR", 10, 0, "1")
	tent := env.seedProduct(t, "TENT", 1, 0, "100")

	_, err := env.reservations.Reserve(ctx, staff, reserveInput(
		usecase.ReserveLineInput{ProductID: chair.ID, Quantity: 2},
		usecase.ReserveLineInput{ProductID: tent.ID, Quantity: 5},
	))
	assertStatus(t, err, http.StatusConflict)

	assert.Equal(t, int64(10), env.available(t, chair.ID))
	assert.Equal(t, int64(1), env.available(t, tent.ID))
	assert.Empty(t, env.movements(t, chair.ID))

	var count int64
	require.NoError(t, env.gdb.Model(&model.Reservation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReservationUsecase_Reserve_Validation(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	chair := env.seedProduct(t, "CHAIR", 10, 0, "1")

	tests := []struct {
		name   string
		actor  model.Actor
		in     usecase.ReserveInput
		status int
	}{
		{"no actor", model.Actor{}, reserveInput(usecase.ReserveLineInput{ProductID: chair.ID, Quantity: 1}), http.StatusUnauthorized},
		{"no lines", staff, reserveInput(), http.StatusBadRequest},
		{"zero quantity", staff, reserveInput(usecase.ReserveLineInput{ProductID: chair.ID}), http.StatusBadRequest},
		{"unknown product", staff, reserveInput(usecase.ReserveLineInput{ProductID: 999, Quantity: 1}), http.StatusBadRequest},
		{"inverted period", staff, usecase.ReserveInput{
			CustomerName: "x",
			StartDate:    day("2026-06-05"),
			EndDate:      day("2026-06-01"),
			Lines:        []usecase.ReserveLineInput{{ProductID: chair.ID, Quantity: 1}},
		}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.reservations.Reserve(ctx, tt.actor, tt.in)
			assertStatus(t, err, tt.status)
		})
	}
	assert.Equal(t, int64(10), env.available(t, chair.ID))
}

func TestReservationUsecase_ReturnRestocks(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	chair := env.seedProduct(t, "CHAIR", 10, 0, "1")

	res, err := env.reservations.Reserve(ctx, staff, reserveInput(usecase.ReserveLineInput{ProductID: chair.ID, Quantity: 4}))
	require.NoError(t, err)

	out, err := env.reservations.Return(ctx, staff, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusReturned, out.Status)
	assert.Equal(t, int64(10), env.available(t, chair.ID))

	mv := env.movements(t, chair.ID)
	require.Len(t, mv, 2)
	assert.Equal(t, model.MovementReturn, mv[1].Type)
	assert.Equal(t, int64(4), mv[1].Quantity)
	assert.Equal(t, int64(6), mv[1].QuantityBefore)
	assert.Equal(t, int64(10), mv[1].QuantityAfter)
	// only RESERVATION rows carry the period
	assert.Nil(t, mv[1].ReservationStart)

	_, err = env.reservations.Return(ctx, staff, res.ID)
	assertStatus(t, err, http.StatusConflict)
	_, err = env.reservations.Cancel(ctx, staff, res.ID)
	assertStatus(t, err, http.StatusConflict)
}

func TestReservationUsecase_Cancel(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	chair := env.seedProduct(t, "CHAIR", 5, 0, "1")

	res, err := env.reservations.Reserve(ctx, staff, reserveInput(usecase.ReserveLineInput{ProductID: chair.ID, Quantity: 5}))
	require.NoError(t, err)
	assert.Zero(t, env.available(t, chair.ID))

	out, err := env.reservations.Cancel(ctx, staff, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCancelled, out.Status)
	assert.Equal(t, int64(5), env.available(t, chair.ID))

	mv := env.movements(t, chair.ID)
	require.Len(t, mv, 2)
	assert.Equal(t, model.MovementCancellation, mv[1].Type)

	var logs []model.AuditLog
	require.NoError(t, env.gdb.Where("resource_type = ?", model.AuditResourceReservation).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditActionUpdateReservationStatus, logs[0].Action)
	assert.JSONEq(t, `{"status":"CANCELLED"}`, logs[0].AfterJSON)

	_, err = env.reservations.Cancel(ctx, staff, 999)
	assertStatus(t, err, http.StatusNotFound)
}

func TestReservationUsecase_ShiftDates(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	chair := env.seedProduct(t, "CHAIR", 10, 0, "1")

	res, err := env.reservations.Reserve(ctx, staff, reserveInput(usecase.ReserveLineInput{ProductID: chair.ID, Quantity: 1}))
	require.NoError(t, err)

	out, err := env.reservations.ShiftDates(ctx, staff, res.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "2026-06-03", out.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2026-06-05", out.EndDate.Format("2006-01-02"))
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "2026-06-03", out.Lines[0].StartDate.Format("2006-01-02"))

	got, err := env.reservations.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-06-05", got.EndDate.Format("2006-01-02"))

	// stock and ledger untouched
	assert.Equal(t, int64(9), env.available(t, chair.ID))
	assert.Len(t, env.movements(t, chair.ID), 1)

	for _, days := range []int{0, 366, -366} {
		_, err := env.reservations.ShiftDates(ctx, staff, res.ID, days)
		assertStatus(t, err, http.StatusBadRequest)
	}
}

func TestReservationUsecase_GetIncludesMovements(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	chair := env.seedProduct(t, "CHAIR", 10, 0, "1")

	res, err := env.reservations.Reserve(ctx, staff, reserveInput(usecase.ReserveLineInput{ProductID: chair.ID, Quantity: 2}))
	require.NoError(t, err)
	_, err = env.reservations.Return(ctx, staff, res.ID)
	require.NoError(t, err)

	out, err := env.reservations.Get(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, out.Movements, 2)

	//newest first
	assert.Equal(t, model.MovementReturn, out.Movements[0].Type)
	assert.Equal(t, model.MovementReservation, out.Movements[1].Type)
	assert.Equal(t, "CHAIR", out.Movements[1].ProductCode)
	assert.Equal(t, "Product CHAIR", out.Movements[1].ProductName)

	_, err = env.reservations.Get(ctx, 0)
	assertStatus(t, err, http.StatusBadRequest)
	_, err = env.reservations.Get(ctx, 42)
	assertStatus(t, err, http.StatusNotFound)
}

func TestShiftLines_DoesNotMutateInput(t *testing.T) {
	in := []model.ReservationLine{{StartDate: day("2026-01-30"), EndDate: day("2026-02-01")}}

	out := usecase.ShiftLines(in, -30)

	assert.Equal(t, "2025-12-31", out[0].StartDate.Format("2006-01-02"))
	assert.Equal(t, "2026-01-02", out[0].EndDate.Format("2006-01-02"))
	assert.Equal(t, "2026-01-30", in[0].StartDate.Format("2006-01-02"))
}

func TestReservationUsecase_ReturnAfterProductDeleted(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	chair := env.seedProduct(t, "CHAIR", 6, 0, "1")

	res, err := env.reservations.Reserve(ctx, staff, reserveInput(usecase.ReserveLineInput{ProductID: chair.ID, Quantity: 2}))
	require.NoError(t, err)
	require.NoError(t, env.gdb.Delete(&model.Product{}, chair.ID).Error)

	out, err := env.reservations.Return(ctx, staff, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusReturned, out.Status)

	var p model.Product
	require.NoError(t, env.gdb.Unscoped().First(&p, chair.ID).Error)
	assert.Equal(t, int64(6), p.AvailableQuantity)

	mv := env.movements(t, chair.ID)
	require.Len(t, mv, 2)
	assert.Equal(t, model.MovementReturn, mv[1].Type)
	assert.Equal(t, int64(4), mv[1].QuantityBefore)
	assert.Equal(t, int64(6), mv[1].QuantityAfter)
}

func TestReservationUsecase_CancelWithMissingProduct(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	chair := env.seedProduct(t, "CHAIR", 6, 0, "1")

	res, err := env.reservations.Reserve(ctx, staff, reserveInput(usecase.ReserveLineInput{ProductID: chair.ID, Quantity: 2}))
	require.NoError(t, err)
	require.NoError(t, env.gdb.Unscoped().Delete(&model.Product{}, chair.ID).Error)

	_, err = env.reservations.Cancel(ctx, staff, res.ID)
	assertStatus(t, err, http.StatusConflict)

	got, err := env.reservations.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, got.Status)
}
