package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jaevor/go-nanoid"

	"github.com/courierhub/shift-settlement-service/internal/delivery/http/dto"
	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/usecase"
)

// TransactionHandler serves ledger postings and the settlement report.
type TransactionHandler struct {
	Ledger usecase.LedgerUsecase
	Report usecase.ReportUsecase
}

func NewTransactionHandler(ledger usecase.LedgerUsecase, report usecase.ReportUsecase) *TransactionHandler {
	return &TransactionHandler{Ledger: ledger, Report: report}
}

func (h *TransactionHandler) CreateOrderTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.OrderTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CourierID == "" || req.TerminalID == "" {
		writeError(w, http.StatusBadRequest, "courier_id and terminal_id are required")
		return
	}

	key := req.IdempotencyKey
	if key == "" {
		// Direct manual postings get a generated key; webhooks that may
		// double-submit are expected to pass their own.
		idGenerator, err := nanoid.Standard(15)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		key = idGenerator()
	}

	txType := domain.TxTerminalBalance
	if req.OrderID != "" {
		txType = domain.TxOrderBonus
	}

	if _, err := h.Ledger.Post(usecase.PostInput{
		CourierID:      req.CourierID,
		TerminalID:     req.TerminalID,
		Amount:         req.Amount,
		Type:           txType,
		Comment:        req.Comment,
		OrderID:        req.OrderID,
		IdempotencyKey: key,
	}); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *TransactionHandler) CalculateGarant(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateGarantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	from, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate, expected YYYY-MM-DD")
		return
	}
	// The period covers the whole end day.
	to = to.AddDate(0, 0, 1).Add(-time.Second)

	var walletTo time.Time
	if req.WalletEndDate != "" {
		walletTo, err = time.Parse("2006-01-02", req.WalletEndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid walletEndDate, expected YYYY-MM-DD")
			return
		}
		walletTo = walletTo.AddDate(0, 0, 1).Add(-time.Second)
	}

	input := usecase.ReportInput{
		From:      from,
		To:        to,
		WalletTo:  walletTo,
		SortField: req.SortField,
		SortOrder: domain.SortOrder(req.SortOrder),
	}
	for _, f := range req.Filters {
		input.Filters = append(input.Filters, domain.Filter{
			Field:  domain.FilterField(f.Field),
			Op:     domain.FilterOp(f.Op),
			Values: f.Values,
		})
	}

	report, err := h.Report.Build(input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSettlementReportResponse(report))
}
