package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/usecase"
)

// =============================================================================
// STUB USECASES
// =============================================================================

type stubShifts struct {
	openErr  error
	closeErr error
	shift    *domain.ShiftEntry
}

func (s *stubShifts) Open(ctx context.Context, courierID string, lat, lon float64, ip string) (*domain.ShiftEntry, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.shift, nil
}

func (s *stubShifts) Close(ctx context.Context, courierID string, lat, lon float64, ip string) (*domain.ShiftEntry, error) {
	if s.closeErr != nil {
		return nil, s.closeErr
	}
	return s.shift, nil
}

func (s *stubShifts) CloseStale(ctx context.Context, openLongerThan time.Duration) (int, error) {
	return 0, nil
}

type stubLedger struct {
	posted      []usecase.PostInput
	postErr       error
	withdrawErr   error
	balances      []*domain.TerminalBalance
	balanceFilter domain.BalanceFilter
}

func (s *stubLedger) Post(input usecase.PostInput) (*domain.LedgerEntry, error) {
	if s.postErr != nil {
		return nil, s.postErr
	}
	s.posted = append(s.posted, input)
	return &domain.LedgerEntry{ID: "entry-1"}, nil
}

func (s *stubLedger) Withdraw(managerID, courierID, terminalID string, amount decimal.Decimal, comment string) (*domain.LedgerEntry, error) {
	if s.withdrawErr != nil {
		return nil, s.withdrawErr
	}
	return &domain.LedgerEntry{ID: "entry-1"}, nil
}

func (s *stubLedger) TerminalBalances(filter domain.BalanceFilter) ([]*domain.TerminalBalance, error) {
	s.balanceFilter = filter
	return s.balances, nil
}

type stubGuarantee struct {
	settleErr error
	settled   []string
}

func (s *stubGuarantee) SettleDay(ctx context.Context, courierID string, day time.Time) (*domain.GuaranteeTask, error) {
	if s.settleErr != nil {
		return nil, s.settleErr
	}
	s.settled = append(s.settled, courierID)
	return &domain.GuaranteeTask{ID: "task-1", Status: domain.TaskApplied}, nil
}

func (s *stubGuarantee) SettlePrior(ctx context.Context) error { return nil }

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestOpenTimeEntry_Success(t *testing.T) {
	opened := time.Date(2025, time.June, 3, 9, 5, 0, 0, time.UTC)
	h := NewCourierHandler(&stubShifts{shift: &domain.ShiftEntry{
		ID: "sh1", CourierID: "c1", Status: domain.ShiftOpen, OpenedAt: opened,
	}}, &stubLedger{}, &stubGuarantee{})

	rec := postJSON(t, h.OpenTimeEntry, "/couriers/open_time_entry",
		map[string]float64{"lat_open": 55.75, "lon_open": 37.61},
		map[string]string{"X-Courier-ID": "c1"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sh1", resp["id"])
	assert.Equal(t, "OPEN", resp["status"])
}

func TestOpenTimeEntry_MissingIdentity(t *testing.T) {
	h := NewCourierHandler(&stubShifts{}, &stubLedger{}, &stubGuarantee{})

	rec := postJSON(t, h.OpenTimeEntry, "/couriers/open_time_entry", map[string]float64{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpenTimeEntry_BusinessErrorsMapTo400(t *testing.T) {
	causes := []*domain.Error{
		domain.ErrShiftAlreadyOpen,
		domain.ErrNotCourier,
		domain.ErrTooFarFromTerminal,
		domain.ErrNoActiveSchedule,
	}
	for _, cause := range causes {
		t.Run(string(cause.Kind), func(t *testing.T) {
			h := NewCourierHandler(&stubShifts{openErr: cause}, &stubLedger{}, &stubGuarantee{})

			rec := postJSON(t, h.OpenTimeEntry, "/couriers/open_time_entry",
				map[string]float64{}, map[string]string{"X-Courier-ID": "c1"})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp["message"], cause.Message)
		})
	}
}

func TestCloseTimeEntry_InternalErrorMapsTo500(t *testing.T) {
	h := NewCourierHandler(&stubShifts{closeErr: context.DeadlineExceeded}, &stubLedger{}, &stubGuarantee{})

	rec := postJSON(t, h.CloseTimeEntry, "/couriers/close_time_entry",
		map[string]float64{}, map[string]string{"X-Courier-ID": "c1"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTrySetDailyGarant_ParsesDate(t *testing.T) {
	guarantee := &stubGuarantee{}
	h := NewCourierHandler(&stubShifts{}, &stubLedger{}, guarantee)

	rec := postJSON(t, h.TrySetDailyGarant, "/couriers/try_set_daily_garant",
		map[string]string{"date": "2025-06-03", "courier_id": "c1"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"c1"}, guarantee.settled)
}

func TestTrySetDailyGarant_RejectsBadDate(t *testing.T) {
	h := NewCourierHandler(&stubShifts{}, &stubLedger{}, &stubGuarantee{})

	rec := postJSON(t, h.TrySetDailyGarant, "/couriers/try_set_daily_garant",
		map[string]string{"date": "03.06.2025", "courier_id": "c1"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTerminalBalance_FiltersFromQuery(t *testing.T) {
	ledger := &stubLedger{balances: []*domain.TerminalBalance{
		{ID: "b1", CourierID: "c1", TerminalID: "t1", Balance: decimal.RequireFromString("500")},
	}}
	h := NewCourierHandler(&stubShifts{}, ledger, &stubGuarantee{})

	req := httptest.NewRequest(http.MethodGet, "/couriers/terminal_balance?courier_id[]=c1&terminal_id[]=t1&status[]=online", nil)
	rec := httptest.NewRecorder()
	h.TerminalBalance(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "c1", rows[0]["courier"])

	assert.Equal(t, []string{"c1"}, ledger.balanceFilter.CourierIDs)
	assert.Equal(t, []string{"t1"}, ledger.balanceFilter.TerminalIDs)
	assert.Equal(t, []string{"online"}, ledger.balanceFilter.Statuses)
	assert.True(t, ledger.balanceFilter.PositiveOnly)
}

func TestManagerWithdraw_RequiresManagerHeader(t *testing.T) {
	h := NewCourierHandler(&stubShifts{}, &stubLedger{}, &stubGuarantee{})

	rec := postJSON(t, h.ManagerWithdraw, "/couriers/manager_withdraw",
		map[string]any{"courier_id": "c1", "terminal_id": "t1", "amount": "100"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestManagerWithdraw_SelfWithdrawRejected(t *testing.T) {
	h := NewCourierHandler(&stubShifts{}, &stubLedger{withdrawErr: domain.ErrSelfWithdraw}, &stubGuarantee{})

	rec := postJSON(t, h.ManagerWithdraw, "/couriers/manager_withdraw",
		map[string]any{"courier_id": "m1", "terminal_id": "t1", "amount": "100"},
		map[string]string{"X-Manager-ID": "m1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
