package order

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nodcareer/orderflow/internal/config"
	"github.com/nodcareer/orderflow/internal/contract"
	"github.com/nodcareer/orderflow/internal/entity"
	"github.com/nodcareer/orderflow/internal/messaging"
	repo "github.com/nodcareer/orderflow/internal/repository/order"
	"github.com/nodcareer/orderflow/internal/worker"
)

var workerTracer = otel.Tracer("github.com/nodcareer/orderflow/worker/order")

// Repository is the persistence capability the consumer depends on.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	UpdateStatus(ctx context.Context, order *entity.Order) error
}

// Processor is the unit of work run while an order sits in Processing.
// The default implementation is a fixed pause standing in for real work.
type Processor func(ctx context.Context, order *entity.Order) error

// FixedDelay builds a Processor that pauses for d, honoring cancellation.
func FixedDelay(d time.Duration) Processor {
	return func(ctx context.Context, _ *entity.Order) error {
		if d <= 0 {
			return nil
		}
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Consumer advances orders through the Pending → Processing → Completed
// lifecycle, one delivered message at a time. Transitions are re-run from
// scratch on redelivery; both status writes set fixed values, so repeated
// delivery converges on the same terminal row.
type Consumer struct {
	repo    Repository
	process Processor
	logger  *zap.Logger
	now     func() time.Time
}

// NewConsumer constructs a Consumer.
func NewConsumer(repository Repository, process Processor, logger *zap.Logger) *Consumer {
	return &Consumer{
		repo:    repository,
		process: process,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes one queue message. A nil return consumes the message;
// an error leaves it to the queue's redelivery policy. Malformed payloads
// and references to missing orders are logged and dropped, never retried.
func (c *Consumer) Handle(ctx context.Context, msg messaging.Message) error {
	ctx, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
		attribute.String("messaging.topic", msg.Topic),
	))
	defer span.End()

	message, err := contract.DecodeOrderMessage(msg.Value)
	if err != nil {
		c.logger.Error("dropping undecodable order message", zap.Error(err))

		span.RecordError(err)
		span.SetStatus(codes.Error, "decode error")
		return nil
	}
	span.SetAttributes(attribute.Int64("order.id", message.OrderID))

	order, err := c.repo.GetByID(ctx, message.OrderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.logger.Error("order referenced by message not found; dropping",
				zap.Int64("order_id", message.OrderID),
			)

			span.SetStatus(codes.Error, "order not found")
			return nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return err
	}

	c.logger.Info("processing order",
		zap.Int64("id", order.ID),
		zap.String("customer", order.CustomerName),
	)

	// Mark in-progress first so pollers can tell "being worked" from
	// "not yet picked up". The current stored status is not consulted.
	order.Transition(entity.StatusProcessing, c.now())
	if err := c.repo.UpdateStatus(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "processing write failed")
		return err
	}

	if err := c.process(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "processing failed")
		return err
	}

	order.Transition(entity.StatusCompleted, c.now())
	if err := c.repo.UpdateStatus(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completed write failed")
		return err
	}

	c.logger.Info("order processed", zap.Int64("id", order.ID))

	return nil
}

// Module registers the order consumer with the worker engine.
var Module = fx.Module("worker_order",
	fx.Provide(func(r *repo.Repository) Repository { return r }),
	fx.Provide(func(cfg config.Config) Processor {
		return FixedDelay(cfg.Processing.Delay)
	}),
	fx.Provide(NewConsumer),
	fx.Provide(
		fx.Annotate(
			NewHandlerRegistration,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewHandlerRegistration binds the consumer to the orders topic.
func NewHandlerRegistration(consumer *Consumer, cfg config.Config) worker.HandlerRegistration {
	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: consumer.Handle,
	}
}
