package order

import (
	"go.uber.org/fx"

	repo "github.com/nodcareer/orderflow/internal/repository/order"
)

// Module provides the order service to Fx, binding the concrete repository
// to the service-side Repository capability.
var Module = fx.Options(
	fx.Provide(func(r *repo.Repository) Repository { return r }),
	fx.Provide(NewService),
)
