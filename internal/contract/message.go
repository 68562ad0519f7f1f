// Package contract defines the wire payloads exchanged over the queue.
package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nodcareer/orderflow/internal/entity"
)

// ErrMalformed marks a payload that cannot be decoded into a valid
// OrderMessage. Such messages are logged and dropped, never retried.
var ErrMalformed = errors.New("malformed order message")

// OrderMessage is the denormalized snapshot of an order published at
// creation time. It is a point-in-time copy; the worker mutates the stored
// order, not the message.
type OrderMessage struct {
	OrderID      int64           `json:"OrderId"`
	CustomerName string          `json:"CustomerName"`
	Total        decimal.Decimal `json:"Total"`
	ProductName  string          `json:"ProductName"`
	Status       entity.Status   `json:"Status"`
	CreatedAt    time.Time       `json:"CreatedAt"`
}

// NewOrderMessage snapshots a persisted order. The order must already carry
// its store-assigned id.
func NewOrderMessage(order *entity.Order) OrderMessage {
	return OrderMessage{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Total:        order.Total,
		ProductName:  order.ProductName,
		Status:       order.Status,
		CreatedAt:    order.CreatedAt,
	}
}

// Encode serializes the message for the queue.
func (m OrderMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// MarshalJSON emits Total as a bare JSON number. decimal's default encoding
// quotes the value; the wire contract carries a plain decimal, so the exact
// digits are written straight into the payload.
func (m OrderMessage) MarshalJSON() ([]byte, error) {
	type plain OrderMessage
	return json.Marshal(struct {
		plain
		Total json.RawMessage `json:"Total"`
	}{
		plain: plain(m),
		Total: json.RawMessage(m.Total.String()),
	})
}

// DecodeOrderMessage parses and validates a queue payload. Any failure is
// wrapped in ErrMalformed so consumers can distinguish drop-worthy payloads
// from infrastructure errors.
func DecodeOrderMessage(payload []byte) (OrderMessage, error) {
	var msg OrderMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return OrderMessage{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := msg.validate(); err != nil {
		return OrderMessage{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return msg, nil
}

func (m OrderMessage) validate() error {
	if m.OrderID <= 0 {
		return errors.New("OrderId is required")
	}
	if m.CustomerName == "" {
		return errors.New("CustomerName is required")
	}
	if m.ProductName == "" {
		return errors.New("ProductName is required")
	}
	if !m.Status.Valid() {
		return fmt.Errorf("unknown status %q", m.Status)
	}
	return nil
}
