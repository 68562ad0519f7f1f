package seeder

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/nodcareer/orderflow/internal/database"
	"github.com/nodcareer/orderflow/internal/entity"
)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Orders seeds example orders if they are missing.
func (s *Seeder) Orders(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Order{
		{CustomerName: "Ada Lovelace", ProductName: "Widget", Total: decimal.NewFromFloat(19.99), Status: entity.StatusPending, CreatedAt: now},
		{CustomerName: "Grace Hopper", ProductName: "Gadget", Total: decimal.NewFromFloat(42.50), Status: entity.StatusCompleted, CreatedAt: now, UpdatedAt: now},
	}

	for _, sample := range samples {
		order := sample
		exists, err := s.db.NewSelect().Model((*entity.Order)(nil)).
			Where("customer_name = ?", order.CustomerName).
			Where("product_name = ?", order.ProductName).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if _, err := s.db.NewInsert().Model(&order).Exec(ctx); err != nil {
			return err
		}
	}

	s.logger.Info("seeded orders", zap.Int("count", len(samples)))
	return nil
}
