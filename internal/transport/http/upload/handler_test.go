package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodcareer/orderflow/internal/blobstore"
	"github.com/nodcareer/orderflow/internal/config"
)

func newTestServer(t *testing.T) (*echo.Echo, *blobstore.MemoryStore) {
	t.Helper()
	store := blobstore.NewMemoryStore()
	cfg := config.Config{Storage: config.Storage{Container: "uploads"}}
	e := echo.New()
	Register(e, NewHandler(store, cfg))
	return e, store
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadStoresFile(t *testing.T) {
	e, store := newTestServer(t)

	body, contentType := multipartBody(t, "report.pdf", []byte("pdf bytes"))
	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	data, ok := store.Get(context.Background(), "uploads", "report.pdf")
	require.True(t, ok)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestUploadWithoutFileFails(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/uploads", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUploads(t *testing.T) {
	e, store := newTestServer(t)
	require.NoError(t, store.Put(context.Background(), "uploads", "a.txt", []byte("a")))

	req := httptest.NewRequest(http.MethodGet, "/uploads", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a.txt")
}

func TestDeleteMissingUpload(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/uploads/missing.txt", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
