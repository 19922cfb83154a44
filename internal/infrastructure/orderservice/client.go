package orderservice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courierhub/shift-settlement-service/internal/domain"
)

// HTTPOrderServiceClient pulls finished-order facts from the external
// OrderService over its JSON API.
type HTTPOrderServiceClient struct {
	Address string
}

func NewHTTPOrderServiceClient(address string) (*HTTPOrderServiceClient, error) {
	return &HTTPOrderServiceClient{
		Address: address,
	}, nil
}

type statsRequest struct {
	CourierIDs []string `json:"courier_ids"`
	From       string   `json:"from"`
	To         string   `json:"to"`
}

type statsRow struct {
	CourierID     string          `json:"courier_id"`
	DeliveryPrice decimal.Decimal `json:"delivery_price"`
	OrdersCount   int             `json:"orders_count"`
	FirstOrderAt  time.Time       `json:"first_order_at"`
	LastOrderAt   time.Time       `json:"last_order_at"`
}

type statsResponse struct {
	Success bool       `json:"success"`
	Stats   []statsRow `json:"stats"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (c *HTTPOrderServiceClient) CourierOrderStats(courierIDs []string, from, to time.Time) (map[string]domain.OrderStats, error) {
	requestBodyBytes, err := json.Marshal(statsRequest{
		CourierIDs: courierIDs,
		From:       from.Format(time.RFC3339),
		To:         to.Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	response, err := http.Post(fmt.Sprintf("%s/orders/courier_stats", c.Address), "application/json", bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var statsResp statsResponse
		if err := json.Unmarshal(responseBodyBytes, &statsResp); err != nil {
			return nil, err
		}
		stats := make(map[string]domain.OrderStats, len(statsResp.Stats))
		for _, row := range statsResp.Stats {
			stats[row.CourierID] = domain.OrderStats{
				CourierID:     row.CourierID,
				DeliveryPrice: row.DeliveryPrice,
				OrdersCount:   row.OrdersCount,
				FirstOrderAt:  row.FirstOrderAt,
				LastOrderAt:   row.LastOrderAt,
			}
		}
		return stats, nil
	}

	var errResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil {
		return nil, err
	}
	return nil, errors.New(errResp.Error)
}
