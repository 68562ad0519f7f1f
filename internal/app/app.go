package app

import (
	"go.uber.org/fx"

	"github.com/nodcareer/orderflow/internal/blobstore"
	"github.com/nodcareer/orderflow/internal/cache"
	"github.com/nodcareer/orderflow/internal/config"
	"github.com/nodcareer/orderflow/internal/database"
	"github.com/nodcareer/orderflow/internal/logger"
	"github.com/nodcareer/orderflow/internal/messaging"
	"github.com/nodcareer/orderflow/internal/observability"
	repositoryorder "github.com/nodcareer/orderflow/internal/repository/order"
	httpserver "github.com/nodcareer/orderflow/internal/server/http"
	serviceorder "github.com/nodcareer/orderflow/internal/service/order"
	transporthttp "github.com/nodcareer/orderflow/internal/transport/http"
	"github.com/nodcareer/orderflow/internal/worker"
	workerorder "github.com/nodcareer/orderflow/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	logger.Module,
	observability.Module,
	database.Module,
	cache.Module,
	blobstore.Module,
	messaging.Module,
	repositoryorder.Module,
	serviceorder.Module,
)

// HTTP wires the web tier (order intake + uploads) on top of the core.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes the queue consumer that advances order lifecycles.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
