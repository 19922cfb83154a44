package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierhub/shift-settlement-service/internal/domain"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ShiftEntryResponse struct {
	ID              string     `json:"id"`
	CourierID       string     `json:"courier_id"`
	ScheduleID      string     `json:"schedule_id"`
	Status          string     `json:"status"`
	Late            bool       `json:"late"`
	OpenedAt        time.Time  `json:"opened_at"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	DurationSeconds int64      `json:"duration_seconds,omitempty"`
}

func ToShiftEntryResponse(shift *domain.ShiftEntry) ShiftEntryResponse {
	return ShiftEntryResponse{
		ID:              shift.ID,
		CourierID:       shift.CourierID,
		ScheduleID:      shift.ScheduleID,
		Status:          string(shift.Status),
		Late:            shift.Late,
		OpenedAt:        shift.OpenedAt,
		ClosedAt:        shift.ClosedAt,
		DurationSeconds: shift.DurationSeconds,
	}
}

type TerminalBalanceResponse struct {
	ID       string          `json:"id"`
	Courier  string          `json:"courier"`
	Terminal string          `json:"terminal"`
	Balance  decimal.Decimal `json:"balance"`
}

type SettlementRowResponse struct {
	CourierID       string          `json:"courier_id"`
	CourierName     string          `json:"courier_name"`
	TerminalID      string          `json:"terminal_id"`
	OrganizationID  string          `json:"organization_id"`
	DriveType       string          `json:"drive_type"`
	Status          string          `json:"status"`
	DeliveryPrice   decimal.Decimal `json:"delivery_price"`
	BonusTotal      decimal.Decimal `json:"bonus_total"`
	GarantTotal     decimal.Decimal `json:"garant_total"`
	BalanceToPay    decimal.Decimal `json:"balance_to_pay"`
	OrdersCount     int             `json:"orders_count"`
	BeginDate       *time.Time      `json:"begin_date,omitempty"`
	LastOrderDate   *time.Time      `json:"last_order_date,omitempty"`
	OrderDatesCount int             `json:"order_dates_count"`
}

type TerminalGroupResponse struct {
	TerminalID        string                  `json:"terminal_id"`
	OrganizationID    string                  `json:"organization_id"`
	Rows              []SettlementRowResponse `json:"rows"`
	TotalBalanceToPay decimal.Decimal         `json:"total_balance_to_pay"`
}

type SettlementReportResponse struct {
	From   time.Time               `json:"from"`
	To     time.Time               `json:"to"`
	Groups []TerminalGroupResponse `json:"groups,omitempty"`
	Rows   []SettlementRowResponse `json:"rows,omitempty"`
}

func ToSettlementRowResponse(row *domain.SettlementRow) SettlementRowResponse {
	return SettlementRowResponse{
		CourierID:       row.CourierID,
		CourierName:     row.CourierName,
		TerminalID:      row.TerminalID,
		OrganizationID:  row.OrganizationID,
		DriveType:       string(row.DriveType),
		Status:          row.Status,
		DeliveryPrice:   row.DeliveryPrice,
		BonusTotal:      row.BonusTotal,
		GarantTotal:     row.GarantTotal,
		BalanceToPay:    row.BalanceToPay,
		OrdersCount:     row.OrdersCount,
		BeginDate:       row.BeginDate,
		LastOrderDate:   row.LastOrderDate,
		OrderDatesCount: row.OrderDatesCount,
	}
}

func ToSettlementReportResponse(report *domain.SettlementReport) SettlementReportResponse {
	resp := SettlementReportResponse{From: report.From, To: report.To}
	for _, g := range report.Groups {
		group := TerminalGroupResponse{
			TerminalID:        g.TerminalID,
			OrganizationID:    g.OrganizationID,
			TotalBalanceToPay: g.TotalBalanceToPay,
		}
		for _, row := range g.Rows {
			group.Rows = append(group.Rows, ToSettlementRowResponse(row))
		}
		resp.Groups = append(resp.Groups, group)
	}
	for _, row := range report.Flat {
		resp.Rows = append(resp.Rows, ToSettlementRowResponse(row))
	}
	return resp
}
