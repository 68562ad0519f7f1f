package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customer_name"`
	ProductName  string          `json:"product_name"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    *time.Time      `json:"updated_at"`
}
