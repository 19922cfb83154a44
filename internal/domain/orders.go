package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStats are finished-order facts per courier for a period,
// supplied by the external OrderService.
type OrderStats struct {
	CourierID     string
	DeliveryPrice decimal.Decimal
	OrdersCount   int
	FirstOrderAt  time.Time
	LastOrderAt   time.Time
}

type OrderServicePort interface {
	// CourierOrderStats returns stats keyed by courier ID; couriers
	// without finished orders in the period are absent from the map.
	CourierOrderStats(courierIDs []string, from, to time.Time) (map[string]OrderStats, error)
}
