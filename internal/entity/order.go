package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Order represents a purchase order stored in the relational database.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID           int64           `bun:",pk,autoincrement"`
	CustomerName string          `bun:"customer_name,notnull"`
	ProductName  string          `bun:"product_name,notnull"`
	Total        decimal.Decimal `bun:"total,type:numeric(18,2),notnull"`
	Status       Status          `bun:"status,notnull"`
	CreatedAt    time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time       `bun:"updated_at,nullzero"`
}

// Transition advances the order to the next status and stamps updated_at.
// It does not check the transition graph; the worker re-runs transitions on
// redelivery and identical terminal writes must stay harmless.
func (o *Order) Transition(status Status, at time.Time) {
	o.Status = status
	o.UpdatedAt = at.UTC()
}
