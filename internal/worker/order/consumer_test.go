package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nodcareer/orderflow/internal/contract"
	"github.com/nodcareer/orderflow/internal/entity"
	"github.com/nodcareer/orderflow/internal/messaging"
	repo "github.com/nodcareer/orderflow/internal/repository/order"
)

type statusWrite struct {
	status    entity.Status
	updatedAt time.Time
}

type mockRepo struct {
	orders      map[int64]*entity.Order
	writes      []statusWrite
	getErr      error
	updateErrAt int // 1-based index of the write that should fail; 0 disables
}

func newMockRepo(orders ...*entity.Order) *mockRepo {
	m := &mockRepo{orders: make(map[int64]*entity.Order)}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, order *entity.Order) error {
	if m.updateErrAt > 0 && len(m.writes)+1 == m.updateErrAt {
		return errors.New("update failed")
	}
	m.writes = append(m.writes, statusWrite{status: order.Status, updatedAt: order.UpdatedAt})
	if stored, ok := m.orders[order.ID]; ok {
		stored.Status = order.Status
		stored.UpdatedAt = order.UpdatedAt
	}
	return nil
}

func noWork(context.Context, *entity.Order) error { return nil }

func pendingOrder(id int64) *entity.Order {
	return &entity.Order{
		ID:           id,
		CustomerName: "Ada",
		ProductName:  "Widget",
		Total:        decimal.RequireFromString("19.99"),
		Status:       entity.StatusPending,
		CreatedAt:    time.Now().UTC().Add(-time.Minute),
	}
}

func orderPayload(t *testing.T, order *entity.Order) []byte {
	t.Helper()
	payload, err := contract.NewOrderMessage(order).Encode()
	require.NoError(t, err)
	return payload
}

func deliver(payload []byte) messaging.Message {
	return messaging.Message{Topic: "orders", Value: payload}
}

func TestHandleCompletesPendingOrder(t *testing.T) {
	order := pendingOrder(1)
	r := newMockRepo(order)
	c := NewConsumer(r, noWork, zap.NewNop())

	start := time.Now().UTC()
	err := c.Handle(context.Background(), deliver(orderPayload(t, order)))
	require.NoError(t, err)

	// Two-phase write: mark in-progress, then mark done.
	require.Len(t, r.writes, 2)
	assert.Equal(t, entity.StatusProcessing, r.writes[0].status)
	assert.Equal(t, entity.StatusCompleted, r.writes[1].status)

	assert.Equal(t, entity.StatusCompleted, r.orders[1].Status)
	assert.False(t, r.orders[1].UpdatedAt.Before(start))
	assert.False(t, r.writes[1].updatedAt.Before(r.writes[0].updatedAt))
}

func TestHandleMissingOrderIsDropped(t *testing.T) {
	r := newMockRepo()
	c := NewConsumer(r, noWork, zap.NewNop())

	msg := contract.OrderMessage{
		OrderID:      999,
		CustomerName: "Ada",
		ProductName:  "Widget",
		Status:       entity.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	payload, err := msg.Encode()
	require.NoError(t, err)

	// A missing order consumes the message without retry and leaves the
	// store untouched.
	err = c.Handle(context.Background(), deliver(payload))
	require.NoError(t, err)
	assert.Empty(t, r.writes)
}

func TestHandleMalformedPayloadIsDropped(t *testing.T) {
	r := newMockRepo(pendingOrder(1))
	c := NewConsumer(r, noWork, zap.NewNop())

	for _, payload := range [][]byte{
		[]byte("not json"),
		[]byte(`{"CustomerName":"Ada"}`),
	} {
		err := c.Handle(context.Background(), deliver(payload))
		require.NoError(t, err)
	}
	assert.Empty(t, r.writes)
}

func TestHandleRedeliveryConvergesOnCompleted(t *testing.T) {
	order := pendingOrder(1)
	r := newMockRepo(order)
	c := NewConsumer(r, noWork, zap.NewNop())
	payload := orderPayload(t, order)

	require.NoError(t, c.Handle(context.Background(), deliver(payload)))
	require.NoError(t, c.Handle(context.Background(), deliver(payload)))

	// Redelivery re-runs both transitions from scratch; the terminal row is
	// the same as after a single delivery.
	require.Len(t, r.writes, 4)
	assert.Equal(t, entity.StatusCompleted, r.orders[1].Status)
}

func TestHandleLookupFailureIsRetried(t *testing.T) {
	r := newMockRepo(pendingOrder(1))
	r.getErr = errors.New("db unreachable")
	c := NewConsumer(r, noWork, zap.NewNop())

	err := c.Handle(context.Background(), deliver(orderPayload(t, pendingOrder(1))))
	require.Error(t, err)
	assert.Empty(t, r.writes)
}

func TestHandleStatusWriteFailureIsRetried(t *testing.T) {
	order := pendingOrder(1)
	r := newMockRepo(order)
	r.updateErrAt = 2
	c := NewConsumer(r, noWork, zap.NewNop())

	err := c.Handle(context.Background(), deliver(orderPayload(t, order)))
	require.Error(t, err)

	// The first write landed; the order is left in Processing for the
	// redelivered message to pick up again.
	require.Len(t, r.writes, 1)
	assert.Equal(t, entity.StatusProcessing, r.orders[1].Status)
}

func TestHandleProcessorFailureIsRetried(t *testing.T) {
	order := pendingOrder(1)
	r := newMockRepo(order)
	failing := func(context.Context, *entity.Order) error { return errors.New("boom") }
	c := NewConsumer(r, failing, zap.NewNop())

	err := c.Handle(context.Background(), deliver(orderPayload(t, order)))
	require.Error(t, err)
	require.Len(t, r.writes, 1)
	assert.Equal(t, entity.StatusProcessing, r.writes[0].status)
}

func TestFixedDelayHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := FixedDelay(time.Minute)(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFixedDelayZeroReturnsImmediately(t *testing.T) {
	start := time.Now()
	require.NoError(t, FixedDelay(0)(context.Background(), nil))
	assert.Less(t, time.Since(start), time.Second)
}
