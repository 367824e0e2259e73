package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-admin/internal/config"
	"catalog-admin/internal/domain"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBackend(t *testing.T, seed ...domain.Product) *Client {
	t.Helper()

	cfg := &config.Config{
		Server:    config.ServerConfig{Env: "development"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Window: time.Minute},
	}
	ts := httptest.NewServer(server.NewRouter(cfg, zap.NewNop(), repository.NewProductRepository(seed), nil))
	t.Cleanup(ts.Close)

	return New(ts.URL+"/api/", 5*time.Second, zap.NewNop())
}

func strPtr(s string) *string { return &s }

func TestProductLifecycleAgainstBackend(t *testing.T) {
	client := newBackend(t)
	ctx := context.Background()

	products, err := client.ListProducts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	created, err := client.CreateProduct(ctx, domain.ProductInput{Name: strPtr("Produto Teste")})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Produto Teste", created.Name)

	updated, err := client.UpdateProduct(ctx, created.ID, domain.ProductInput{Category: strPtr("Books")})
	require.NoError(t, err)
	assert.Equal(t, "Produto Teste", updated.Name)
	assert.Equal(t, "Books", updated.Category)

	require.NoError(t, client.DeleteProduct(ctx, created.ID))

	products, err = client.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestNotFoundSurfacesStatusCode(t *testing.T) {
	client := newBackend(t)

	_, err := client.UpdateProduct(context.Background(), "9", domain.ProductInput{Name: strPtr("x")})
	require.Error(t, err)
	assert.Equal(t, "request failed with status code 404", err.Error())
	assert.True(t, IsNotFound(err))

	err = client.DeleteProduct(context.Background(), "9")
	assert.True(t, IsNotFound(err))
}

func TestServerErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := New(ts.URL, time.Second, zap.NewNop()).ListProducts(context.Background())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "request failed with status code 500", apiErr.Message)
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, time.Second, zap.NewNop()).ListProducts(context.Background())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "network error")
	assert.False(t, IsNotFound(err))
}

func TestCanceledContext(t *testing.T) {
	client := newBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListProducts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMalformedResponseBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	_, err := New(ts.URL, time.Second, zap.NewNop()).ListProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestProductPathEscapesID(t *testing.T) {
	assert.Equal(t, "/products/a%2Fb", productPath("a/b"))
}
