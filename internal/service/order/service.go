package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nodcareer/orderflow/internal/cache"
	"github.com/nodcareer/orderflow/internal/config"
	"github.com/nodcareer/orderflow/internal/contract"
	"github.com/nodcareer/orderflow/internal/entity"
	"github.com/nodcareer/orderflow/internal/messaging"
	repo "github.com/nodcareer/orderflow/internal/repository/order"
	"github.com/nodcareer/orderflow/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/nodcareer/orderflow/service/order")

// maxNameLength bounds customer and product names at intake.
const maxNameLength = 200

// Repository is the persistence capability the service depends on.
type Repository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
}

// CreateOrderInput carries validated order intake fields.
type CreateOrderInput struct {
	CustomerName string
	ProductName  string
	Total        decimal.Decimal
}

// Validate checks intake constraints before any persistence happens.
func (in CreateOrderInput) Validate() error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return errorbank.BadRequest("customer name is required")
	}
	if len(in.CustomerName) > maxNameLength {
		return errorbank.BadRequest("customer name exceeds 200 characters")
	}
	if strings.TrimSpace(in.ProductName) == "" {
		return errorbank.BadRequest("product name is required")
	}
	if len(in.ProductName) > maxNameLength {
		return errorbank.BadRequest("product name exceeds 200 characters")
	}
	if in.Total.IsNegative() {
		return errorbank.BadRequest("total must not be negative")
	}
	return nil
}

// Service encapsulates the order creation path: persist, then publish.
type Service struct {
	repo      Repository
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	now       func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a new pending order and publishes its queue message.
// The insert and the publish are two separate writes; a failed publish
// leaves the committed row pending with no message, and the error is
// surfaced to the caller rather than compensated.
func (s *Service) Create(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.String("order.customer", in.CustomerName)))
	defer span.End()

	order := &entity.Order{
		CustomerName: in.CustomerName,
		ProductName:  in.ProductName,
		Total:        in.Total,
		Status:       entity.StatusPending,
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	s.logger.Info("order created",
		zap.Int64("id", order.ID),
		zap.String("customer", order.CustomerName),
	)

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.Int64("id", order.ID), zap.Error(err))
	}

	if err := s.publishOrderMessage(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish error")
		return nil, errorbank.Internal("order stored but queue send failed",
			errorbank.WithCause(err),
			errorbank.WithDetail("order_id", order.ID),
		)
	}

	return order, nil
}

func (s *Service) publishOrderMessage(ctx context.Context, order *entity.Order) error {
	msg := contract.NewOrderMessage(order)
	payload, err := msg.Encode()
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", order.ID)), payload); err != nil {
		return err
	}
	s.logger.Info("order message sent to queue", zap.Int64("order_id", order.ID))
	return nil
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.Int64("id", id), zap.Error(err))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.Int64("id", id), zap.Error(err))
	}

	return order, nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("orders:%d", id)
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if s.cache == nil || order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL)
}
