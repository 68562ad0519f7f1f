package http

import (
	"go.uber.org/fx"

	ordertransport "github.com/nodcareer/orderflow/internal/transport/http/order"
	uploadtransport "github.com/nodcareer/orderflow/internal/transport/http/upload"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	uploadtransport.Module,
)
