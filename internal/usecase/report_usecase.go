package usecase

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierhub/shift-settlement-service/internal/domain"
	"github.com/courierhub/shift-settlement-service/internal/infrastructure/metrics"
)

type ReportInput struct {
	From time.Time
	To   time.Time
	// WalletTo extends the end bound for the ledger sums past the order
	// window, so garant postings settled after the period still count.
	// Zero means To.
	WalletTo time.Time
	Filters  []domain.Filter
	// SortField switches the report to the flat sorted view; empty
	// keeps the grouped-by-terminal view. The two are exclusive.
	SortField string
	SortOrder domain.SortOrder
}

type ReportCourierSource interface {
	ListCouriers() ([]*domain.Courier, error)
	CourierTerminal(courierID string) (*domain.Terminal, error)
}

type ReportUsecase interface {
	Build(input ReportInput) (*domain.SettlementReport, error)
}

// DefaultReportUsecase joins ledger aggregates with order facts from
// the external OrderService and attendance day counts into the
// hierarchical settlement view.
type DefaultReportUsecase struct {
	LedgerRepo     domain.LedgerRepository
	AttendanceRepo domain.AttendanceRepository
	Couriers       ReportCourierSource
	Orders         domain.OrderServicePort
	Metrics        *metrics.ShiftMetrics
	Now            func() time.Time
}

func NewDefaultReportUsecase(
	ledgerRepo domain.LedgerRepository,
	attendanceRepo domain.AttendanceRepository,
	couriers ReportCourierSource,
	orders domain.OrderServicePort,
	shiftMetrics *metrics.ShiftMetrics) *DefaultReportUsecase {

	return &DefaultReportUsecase{
		LedgerRepo:     ledgerRepo,
		AttendanceRepo: attendanceRepo,
		Couriers:       couriers,
		Orders:         orders,
		Metrics:        shiftMetrics,
		Now:            time.Now,
	}
}

// sortFields is the whitelist for the flat view; anything else is
// rejected at validation.
var sortFields = map[string]func(a, b *domain.SettlementRow) bool{
	"courier_id":      func(a, b *domain.SettlementRow) bool { return a.CourierID < b.CourierID },
	"delivery_price":  func(a, b *domain.SettlementRow) bool { return a.DeliveryPrice.LessThan(b.DeliveryPrice) },
	"bonus_total":     func(a, b *domain.SettlementRow) bool { return a.BonusTotal.LessThan(b.BonusTotal) },
	"garant_total":    func(a, b *domain.SettlementRow) bool { return a.GarantTotal.LessThan(b.GarantTotal) },
	"balance_to_pay":  func(a, b *domain.SettlementRow) bool { return a.BalanceToPay.LessThan(b.BalanceToPay) },
	"orders_count":    func(a, b *domain.SettlementRow) bool { return a.OrdersCount < b.OrdersCount },
	"last_order_date": func(a, b *domain.SettlementRow) bool { return lessTimePtr(a.LastOrderDate, b.LastOrderDate) },
}

func (uc *DefaultReportUsecase) Build(input ReportInput) (*domain.SettlementReport, error) {
	started := uc.Now()

	if input.To.Before(input.From) {
		return nil, domain.NewError(domain.KindInvalid, "report period end before start")
	}
	if !input.WalletTo.IsZero() && input.WalletTo.Before(input.From) {
		return nil, domain.NewError(domain.KindInvalid, "wallet period end before start")
	}
	for _, f := range input.Filters {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}
	if input.SortField != "" {
		if _, ok := sortFields[input.SortField]; !ok {
			return nil, domain.NewError(domain.KindInvalid, "unknown sort field %q", input.SortField)
		}
	}

	couriers, err := uc.Couriers.ListCouriers()
	if err != nil {
		return nil, err
	}

	courierIDs := make([]string, 0, len(couriers))
	for _, c := range couriers {
		courierIDs = append(courierIDs, c.ID)
	}

	walletTo := input.To
	if !input.WalletTo.IsZero() {
		walletTo = input.WalletTo
	}
	bonuses, err := uc.LedgerRepo.SumByType(courierIDs, domain.TxOrderBonus, input.From, walletTo)
	if err != nil {
		return nil, err
	}
	garants, err := uc.LedgerRepo.SumByType(courierIDs, domain.TxDailyGarant, input.From, walletTo)
	if err != nil {
		return nil, err
	}
	orderStats, err := uc.Orders.CourierOrderStats(courierIDs, input.From, input.To)
	if err != nil {
		return nil, err
	}
	workedDays, err := uc.AttendanceRepo.CountWorkedDays(courierIDs, input.From, input.To)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.SettlementRow, 0, len(couriers))
	for _, c := range couriers {
		terminal, err := uc.Couriers.CourierTerminal(c.ID)
		if err != nil {
			return nil, err
		}

		row := &domain.SettlementRow{
			CourierID:      c.ID,
			CourierName:    c.Name,
			OrganizationID: c.OrganizationID,
			DriveType:      c.DriveType,
			Status:         courierStatus(c),
			BonusTotal:     bonuses[c.ID],
			GarantTotal:    garants[c.ID],
		}
		if terminal != nil {
			row.TerminalID = terminal.ID
			if row.OrganizationID == "" {
				row.OrganizationID = terminal.OrganizationID
			}
		}
		if stats, ok := orderStats[c.ID]; ok {
			row.DeliveryPrice = stats.DeliveryPrice
			row.OrdersCount = stats.OrdersCount
			first, last := stats.FirstOrderAt, stats.LastOrderAt
			row.BeginDate = &first
			row.LastOrderDate = &last
		}
		row.OrderDatesCount = workedDays[c.ID]
		// Garant already went out through the ledger, so it reduces
		// what is still owed.
		row.BalanceToPay = row.DeliveryPrice.Add(row.BonusTotal).Sub(row.GarantTotal)

		if !matchAll(input.Filters, row) {
			continue
		}
		rows = append(rows, row)
	}

	report := &domain.SettlementReport{From: input.From, To: input.To}

	if input.SortField != "" {
		less := sortFields[input.SortField]
		sort.SliceStable(rows, func(i, j int) bool {
			if input.SortOrder == domain.SortDesc {
				return less(rows[j], rows[i])
			}
			return less(rows[i], rows[j])
		})
		report.Flat = rows
	} else {
		report.Groups = groupByTerminal(rows)
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordReportBuild(input.SortField == "", uc.Now().Sub(started).Seconds())
	}
	return report, nil
}

func matchAll(filters []domain.Filter, row *domain.SettlementRow) bool {
	for _, f := range filters {
		if !f.Match(row) {
			return false
		}
	}
	return true
}

func groupByTerminal(rows []*domain.SettlementRow) []*domain.TerminalGroup {
	byTerminal := make(map[string]*domain.TerminalGroup)
	var order []string
	for _, row := range rows {
		g, ok := byTerminal[row.TerminalID]
		if !ok {
			g = &domain.TerminalGroup{
				TerminalID:        row.TerminalID,
				OrganizationID:    row.OrganizationID,
				TotalBalanceToPay: decimal.Zero,
			}
			byTerminal[row.TerminalID] = g
			order = append(order, row.TerminalID)
		}
		g.Rows = append(g.Rows, row)
		g.TotalBalanceToPay = g.TotalBalanceToPay.Add(row.BalanceToPay)
	}

	sort.Strings(order)
	groups := make([]*domain.TerminalGroup, 0, len(order))
	for _, id := range order {
		groups = append(groups, byTerminal[id])
	}
	return groups
}

func courierStatus(c *domain.Courier) string {
	if c.Online {
		return "online"
	}
	return "offline"
}

func lessTimePtr(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.Before(*b)
}
