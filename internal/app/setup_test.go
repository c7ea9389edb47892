package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/abgdnv/products/internal/service"
	"github.com/abgdnv/products/internal/store"
	"github.com/abgdnv/products/pkg/messaging"
	"github.com/abgdnv/products/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func newTestServer(t *testing.T, deps *Dependencies) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(SetupHttpHandler(deps))
	t.Cleanup(srv.Close)
	return srv
}

func newDeps() *Dependencies {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return SetupDependencies(store.NewMemoryStore(), messaging.NoopPublisher{}, logger)
}

func do(t *testing.T, method, target, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func Test_ProductLifecycle(t *testing.T) {
	// given
	srv := newTestServer(t, newDeps())
	base := srv.URL + "/products"

	// when: create
	resp, body := do(t, http.MethodPost, base, "application/json", `{"name":"Banana"}`)

	// then
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	var created service.ProductDto
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Banana", created.Name)
	assert.Nil(t, created.Category)

	// show
	resp, body = do(t, http.MethodGet, base+"/"+created.ID, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var shown service.ProductDto
	require.NoError(t, json.Unmarshal(body, &shown))
	assert.Equal(t, created, shown)

	// list
	resp, body = do(t, http.MethodGet, base, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []service.ProductDto
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)

	// update: id and unknown keys are ignored
	resp, body = do(t, http.MethodPatch, base+"/"+created.ID, "application/json",
		`{"id":"00000000-0000-0000-0000-000000000001","name":"Plantain","category":"fruit","color":"green"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated service.ProductDto
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Plantain", updated.Name)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "fruit", *updated.Category)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	// update with a form body
	form := url.Values{"category": {"produce"}}
	resp, body = do(t, http.MethodPut, base+"/"+created.ID, "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "produce", *updated.Category)
	assert.Equal(t, "Plantain", updated.Name)

	// delete
	resp, body = do(t, http.MethodDelete, base+"/"+created.ID, "", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, body)

	// show after delete
	resp, body = do(t, http.MethodGet, base+"/"+created.ID, "", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Couldn't find Product with 'id'=`+created.ID+`"}`, string(body))

	// list after delete
	resp, body = do(t, http.MethodGet, base, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func Test_ErrorResponses(t *testing.T) {
	srv := newTestServer(t, newDeps())

	testCases := []struct {
		name         string
		method       string
		path         string
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "show unknown id",
			method:       http.MethodGet,
			path:         "/products/123e4567-e89b-12d3-a456-426614174000",
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"Couldn't find Product with 'id'=123e4567-e89b-12d3-a456-426614174000"}`,
		},
		{
			name:         "update malformed id",
			method:       http.MethodPatch,
			path:         "/products/42",
			body:         `{"name":"x"}`,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"Couldn't find Product with 'id'=42"}`,
		},
		{
			name:         "delete unknown id",
			method:       http.MethodDelete,
			path:         "/products/123e4567-e89b-12d3-a456-426614174000",
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"Couldn't find Product with 'id'=123e4567-e89b-12d3-a456-426614174000"}`,
		},
		{
			name:         "create with a too long name",
			method:       http.MethodPost,
			path:         "/products",
			body:         `{"name":"` + strings.Repeat("n", 256) + `"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"name":"failed on rule: max"}}`,
		},
		{
			name:         "create with a NUL byte in the name",
			method:       http.MethodPost,
			path:         "/products",
			body:         `{"name":"a\u0000b"}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"validation_errors":{"name":"failed on rule: utf8text"}}`,
		},
		{
			name:         "unknown route",
			method:       http.MethodGet,
			path:         "/orders",
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"No route matches [GET] \"/orders\""}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			resp, body := do(t, tc.method, srv.URL+tc.path, "application/json", tc.body)

			// then
			assert.Equal(t, tc.expectedCode, resp.StatusCode)
			assert.JSONEq(t, tc.expectedBody, string(body))
		})
	}
}

func Test_Probes(t *testing.T) {
	// given
	srv := newTestServer(t, newDeps())

	// when
	health, _ := do(t, http.MethodGet, srv.URL+"/healthz", "", "")
	ready, _ := do(t, http.MethodGet, srv.URL+"/readyz", "", "")

	// then
	assert.Equal(t, http.StatusOK, health.StatusCode)
	assert.Equal(t, http.StatusOK, ready.StatusCode)
}

func Test_MetricsRoute(t *testing.T) {
	// given
	metrics, err := telemetry.NewMetrics("products-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = metrics.Provider.Shutdown(context.Background()) })
	deps := newDeps()
	deps.Metrics = metrics
	deps.MetricsPath = "/metrics"
	srv := newTestServer(t, deps)
	_, _ = do(t, http.MethodGet, srv.URL+"/products", "", "")

	// when
	resp, body := do(t, http.MethodGet, srv.URL+"/metrics", "", "")

	// then
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_server")
}

func Test_MetricsRouteDisabled(t *testing.T) {
	// given
	srv := newTestServer(t, newDeps())

	// when
	resp, _ := do(t, http.MethodGet, srv.URL+"/metrics", "", "")

	// then
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_SetupGrpcServer(t *testing.T) {
	// given
	grpcServer, grpcHealth := SetupGrpcServer(newDeps(), true)
	t.Cleanup(grpcServer.Stop)

	// when
	resp, err := grpcHealth.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})

	// then
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
	assert.Contains(t, grpcServer.GetServiceInfo(), "grpc.health.v1.Health")
	assert.Contains(t, grpcServer.GetServiceInfo(), "grpc.reflection.v1.ServerReflection")
}
