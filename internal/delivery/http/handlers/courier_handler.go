package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/courierhub/shift-settlement-service/internal/delivery/http/dto"
	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/usecase"
)

// CourierHandler serves the courier-facing shift and settlement
// operations. The caller identity is already resolved upstream and
// arrives in the X-Courier-ID / X-Manager-ID headers.
type CourierHandler struct {
	Shifts    usecase.ShiftUsecase
	Ledger    usecase.LedgerUsecase
	Guarantee usecase.GuaranteeUsecase
}

func NewCourierHandler(shifts usecase.ShiftUsecase, ledger usecase.LedgerUsecase, guarantee usecase.GuaranteeUsecase) *CourierHandler {
	return &CourierHandler{Shifts: shifts, Ledger: ledger, Guarantee: guarantee}
}

func (h *CourierHandler) OpenTimeEntry(w http.ResponseWriter, r *http.Request) {
	courierID := r.Header.Get("X-Courier-ID")
	if courierID == "" {
		writeError(w, http.StatusBadRequest, "missing courier identity")
		return
	}

	var req dto.OpenTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shift, err := h.Shifts.Open(r.Context(), courierID, req.LatOpen, req.LonOpen, clientIP(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToShiftEntryResponse(shift))
}

func (h *CourierHandler) CloseTimeEntry(w http.ResponseWriter, r *http.Request) {
	courierID := r.Header.Get("X-Courier-ID")
	if courierID == "" {
		writeError(w, http.StatusBadRequest, "missing courier identity")
		return
	}

	var req dto.CloseTimeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	shift, err := h.Shifts.Close(r.Context(), courierID, req.LatClose, req.LonClose, clientIP(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToShiftEntryResponse(shift))
}

func (h *CourierHandler) TrySetDailyGarant(w http.ResponseWriter, r *http.Request) {
	var req dto.TrySetDailyGarantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if req.CourierID == "" {
		writeError(w, http.StatusBadRequest, "courier_id is required")
		return
	}

	if _, err := h.Guarantee.SettleDay(r.Context(), req.CourierID, day); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *CourierHandler) TerminalBalance(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.BalanceFilter{
		CourierIDs:   query["courier_id[]"],
		TerminalIDs:  query["terminal_id[]"],
		Statuses:     query["status[]"],
		PositiveOnly: true,
	}

	balances, err := h.Ledger.TerminalBalances(filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rows := make([]dto.TerminalBalanceResponse, 0, len(balances))
	for _, b := range balances {
		rows = append(rows, dto.TerminalBalanceResponse{
			ID:       b.ID,
			Courier:  b.CourierID,
			Terminal: b.TerminalID,
			Balance:  b.Balance,
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *CourierHandler) ManagerWithdraw(w http.ResponseWriter, r *http.Request) {
	managerID := r.Header.Get("X-Manager-ID")
	if managerID == "" {
		writeError(w, http.StatusBadRequest, "missing manager identity")
		return
	}

	var req dto.ManagerWithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.Ledger.Withdraw(managerID, req.CourierID, req.TerminalID, req.Amount, req.Comment); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Message: message})
}

// writeDomainError maps taxonomy errors to 400 with the human-readable
// message; anything unclassified is a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	if kind := domain.ErrKind(err); kind != "" {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
