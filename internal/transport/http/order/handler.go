package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nodcareer/orderflow/internal/dto"
	"github.com/nodcareer/orderflow/internal/entity"
	"github.com/nodcareer/orderflow/internal/presentation/http/response"
	service "github.com/nodcareer/orderflow/internal/service/order"
	"github.com/nodcareer/orderflow/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/nodcareer/orderflow/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.GET("", h.list)
	g.GET("/:id", h.getByID)
	g.POST("", h.create)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.list")
	defer span.End()

	orders, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toDTO(&orders[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		CustomerName string          `json:"customer_name" form:"customer_name"`
		ProductName  string          `json:"product_name" form:"product_name"`
		Total        decimal.Decimal `json:"total" form:"total"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.String("order.customer", payload.CustomerName),
	))
	defer span.End()

	order, err := h.svc.Create(ctx, service.CreateOrderInput{
		CustomerName: payload.CustomerName,
		ProductName:  payload.ProductName,
		Total:        payload.Total,
	})
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(toDTO(order)).Build()
}

func toDTO(order *entity.Order) dto.OrderResponse {
	out := dto.OrderResponse{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		ProductName:  order.ProductName,
		Total:        order.Total,
		Status:       order.Status.String(),
		CreatedAt:    order.CreatedAt,
	}
	if !order.UpdatedAt.IsZero() {
		updated := order.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}
