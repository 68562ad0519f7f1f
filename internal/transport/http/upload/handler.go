package upload

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nodcareer/orderflow/internal/blobstore"
	"github.com/nodcareer/orderflow/internal/config"
	"github.com/nodcareer/orderflow/internal/presentation/http/response"
	"github.com/nodcareer/orderflow/pkg/errorbank"
)

// Handler exposes the file upload page's operations over HTTP: list the
// container's blobs, upload (overwrite) a file, and delete one.
type Handler struct {
	store     blobstore.Store
	container string
}

// NewHandler constructs an upload Handler bound to the configured container.
func NewHandler(store blobstore.Store, cfg config.Config) *Handler {
	return &Handler{store: store, container: cfg.Storage.Container}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/uploads")
	g.GET("", h.list)
	g.POST("", h.upload)
	g.DELETE("/:name", h.remove)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	names, err := h.store.List(c.Request().Context(), h.container)
	if err != nil {
		return b.WithError(errorbank.Internal("failed to list files", errorbank.WithCause(err))).Build()
	}
	return b.WithData(names).Build()
}

func (h *Handler) upload(c echo.Context) error {
	b := response.New(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return b.WithError(errorbank.BadRequest("file is required", errorbank.WithCause(err))).Build()
	}

	src, err := fileHeader.Open()
	if err != nil {
		return b.WithError(errorbank.Internal("failed to read file", errorbank.WithCause(err))).Build()
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return b.WithError(errorbank.Internal("failed to read file", errorbank.WithCause(err))).Build()
	}

	if err := h.store.Put(c.Request().Context(), h.container, fileHeader.Filename, data); err != nil {
		return b.WithError(errorbank.Internal("failed to store file",
			errorbank.WithCause(err),
			errorbank.WithDetail("name", fileHeader.Filename),
		)).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(map[string]string{"name": fileHeader.Filename}).Build()
}

func (h *Handler) remove(c echo.Context) error {
	b := response.New(c)

	name := c.Param("name")
	if err := h.store.Delete(c.Request().Context(), h.container, name); err != nil {
		if errors.Is(err, blobstore.ErrBlobNotFound) {
			return b.WithError(errorbank.NotFound("file not found", errorbank.WithDetail("name", name))).Build()
		}
		return b.WithError(errorbank.Internal("failed to delete file",
			errorbank.WithCause(err),
			errorbank.WithDetail("name", name),
		)).Build()
	}

	return b.WithData(map[string]string{"name": name}).Build()
}
