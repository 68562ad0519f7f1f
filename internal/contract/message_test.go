package contract

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodcareer/orderflow/internal/entity"
)

func TestNewOrderMessageSnapshotsOrder(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	order := &entity.Order{
		ID:           7,
		CustomerName: "Ada",
		ProductName:  "Widget",
		Total:        decimal.RequireFromString("19.99"),
		Status:       entity.StatusPending,
		CreatedAt:    created,
	}

	msg := NewOrderMessage(order)

	assert.Equal(t, int64(7), msg.OrderID)
	assert.Equal(t, "Ada", msg.CustomerName)
	assert.Equal(t, "Widget", msg.ProductName)
	assert.True(t, msg.Total.Equal(order.Total))
	assert.Equal(t, entity.StatusPending, msg.Status)
	assert.Equal(t, created, msg.CreatedAt)
}

func TestEncodeUsesWireFieldNames(t *testing.T) {
	msg := OrderMessage{
		OrderID:      1,
		CustomerName: "Ada",
		Total:        decimal.RequireFromString("19.99"),
		ProductName:  "Widget",
		Status:       entity.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	payload, err := msg.Encode()
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &fields))
	for _, name := range []string{"OrderId", "CustomerName", "Total", "ProductName", "Status", "CreatedAt"} {
		assert.Contains(t, fields, name)
	}

	// Total is a bare number on the wire, not a quoted string.
	assert.Equal(t, `19.99`, string(fields["Total"]))
	assert.Contains(t, string(payload), `"Total":19.99`)
}

func TestDecodeRoundTrip(t *testing.T) {
	original := OrderMessage{
		OrderID:      42,
		CustomerName: "Ada",
		Total:        decimal.RequireFromString("19.99"),
		ProductName:  "Widget",
		Status:       entity.StatusPending,
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	payload, err := original.Encode()
	require.NoError(t, err)

	decoded, err := DecodeOrderMessage(payload)
	require.NoError(t, err)
	assert.Equal(t, original.OrderID, decoded.OrderID)
	assert.Equal(t, original.CustomerName, decoded.CustomerName)
	assert.True(t, decoded.Total.Equal(original.Total))
	assert.Equal(t, original.Status, decoded.Status)
	assert.True(t, original.CreatedAt.Equal(decoded.CreatedAt))
}

func TestDecodeAcceptsBareNumberTotal(t *testing.T) {
	payload := []byte(`{"OrderId":1,"CustomerName":"Ada","Total":19.99,"ProductName":"Widget","Status":"Pending","CreatedAt":"2025-01-02T03:04:05Z"}`)

	msg, err := DecodeOrderMessage(payload)
	require.NoError(t, err)
	assert.True(t, msg.Total.Equal(decimal.RequireFromString("19.99")))
}

func TestDecodeRejectsMalformedPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":         `{"OrderId":`,
		"missing order id": `{"CustomerName":"Ada","ProductName":"Widget","Status":"Pending"}`,
		"zero order id":    `{"OrderId":0,"CustomerName":"Ada","ProductName":"Widget","Status":"Pending"}`,
		"missing customer": `{"OrderId":1,"ProductName":"Widget","Status":"Pending"}`,
		"missing product":  `{"OrderId":1,"CustomerName":"Ada","Status":"Pending"}`,
		"unknown status":   `{"OrderId":1,"CustomerName":"Ada","ProductName":"Widget","Status":"Shipped"}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeOrderMessage([]byte(payload))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
