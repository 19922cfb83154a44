package dto

import "github.com/shopspring/decimal"

type OpenTimeEntryRequest struct {
	LatOpen float64 `json:"lat_open"`
	LonOpen float64 `json:"lon_open"`
}

type CloseTimeEntryRequest struct {
	LatClose float64 `json:"lat_close"`
	LonClose float64 `json:"lon_close"`
}

type TrySetDailyGarantRequest struct {
	Date      string `json:"date"` // "2006-01-02"
	CourierID string `json:"courier_id"`
}

type OrderTransactionRequest struct {
	TerminalID     string          `json:"terminal_id"`
	CourierID      string          `json:"courier_id"`
	Amount         decimal.Decimal `json:"amount"`
	Comment        string          `json:"comment"`
	OrderID        string          `json:"order_id,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

type ManagerWithdrawRequest struct {
	CourierID  string          `json:"courier_id"`
	TerminalID string          `json:"terminal_id"`
	Amount     decimal.Decimal `json:"amount"`
	Comment    string          `json:"comment"`
}

type FilterRequest struct {
	Field  string   `json:"field"`
	Op     string   `json:"op"`
	Values []string `json:"values"`
}

type CalculateGarantRequest struct {
	StartDate     string          `json:"startDate"` // "2006-01-02"
	EndDate       string          `json:"endDate"`
	WalletEndDate string          `json:"walletEndDate,omitempty"`
	SortField     string          `json:"sortField,omitempty"`
	SortOrder     string          `json:"sortOrder,omitempty"`
	Filters       []FilterRequest `json:"filters,omitempty"`
}
