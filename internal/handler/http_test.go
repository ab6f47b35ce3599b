package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"company-directory/internal/core"
	"company-directory/internal/middleware"
	"company-directory/internal/platform/kafka"
	"company-directory/internal/service"
)

// MockSource for testing
type MockSource struct {
	mock.Mock
}

func (m *MockSource) List(ctx context.Context) ([]core.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]core.Company), args.Error(1)
}

func (m *MockSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type countRecorder struct {
	last int
}

func (c *countRecorder) ObserveServed(n int) {
	c.last = n
}

func setupTestHandler() (*Handler, *MockSource, *countRecorder) {
	source := new(MockSource)
	svc := service.NewCatalogService(source, kafka.NewNoOpProducer(), nil)
	recorder := &countRecorder{}
	return NewHandler(svc, recorder, nil), source, recorder
}

func strPtr(s string) *string {
	return &s
}

func TestHandler_Companies(t *testing.T) {
	t.Run("serves the dataset", func(t *testing.T) {
		h, source, recorder := setupTestHandler()

		companies := []core.Company{
			{ID: "1", Name: "Acme", Location: strPtr("NY"), Industry: strPtr("Tech")},
			{ID: "2", Name: "Bolt"},
		}
		source.On("List", mock.Anything).Return(companies, nil)

		req := httptest.NewRequest(http.MethodGet, "/companies.json", nil)
		rec := httptest.NewRecorder()

		h.Companies(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `[
			{"id":1,"name":"Acme","location":"NY","industry":"Tech"},
			{"id":2,"name":"Bolt","location":null,"industry":null}
		]`, rec.Body.String())
		assert.Equal(t, 2, recorder.last)
	})

	t.Run("empty dataset is an empty array", func(t *testing.T) {
		h, source, _ := setupTestHandler()
		source.On("List", mock.Anything).Return([]core.Company{}, nil)

		rec := httptest.NewRecorder()
		h.Companies(rec, httptest.NewRequest(http.MethodGet, "/companies.json", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("source unavailable", func(t *testing.T) {
		h, source, _ := setupTestHandler()
		source.On("List", mock.Anything).Return(nil, core.ErrSourceUnavailable)

		rec := httptest.NewRecorder()
		h.Companies(rec, httptest.NewRequest(http.MethodGet, "/companies.json", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "companies unavailable", resp.Error)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		h, source, _ := setupTestHandler()
		source.On("List", mock.Anything).Return([]core.Company{{ID: "1"}, {ID: "1"}}, nil)

		rec := httptest.NewRecorder()
		h.Companies(rec, httptest.NewRequest(http.MethodGet, "/companies.json", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("unexpected error", func(t *testing.T) {
		h, source, _ := setupTestHandler()
		source.On("List", mock.Anything).Return(nil, errors.New("boom"))

		rec := httptest.NewRecorder()
		h.Companies(rec, httptest.NewRequest(http.MethodGet, "/companies.json", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal server error")
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		h := NewHealthHandler(map[string]Pinger{"source": new(MockSource)}, nil)

		rec := httptest.NewRecorder()
		h.Live(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		source := new(MockSource)
		source.On("Ping", mock.Anything).Return(nil)
		h := NewHealthHandler(map[string]Pinger{"source": source}, nil)

		rec := httptest.NewRecorder()
		h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","services":{"source":"healthy"}}`, rec.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		source := new(MockSource)
		source.On("Ping", mock.Anything).Return(core.ErrSourceUnavailable)
		h := NewHealthHandler(map[string]Pinger{"source": source}, nil)

		rec := httptest.NewRecorder()
		h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Contains(t, resp.Services["source"], "record source unavailable")
	})

	t.Run("one failing dependency fails readiness", func(t *testing.T) {
		healthy := new(MockSource)
		healthy.On("Ping", mock.Anything).Return(nil)
		broken := new(MockSource)
		broken.On("Ping", mock.Anything).Return(errors.New("connection refused"))
		h := NewHealthHandler(map[string]Pinger{"source": healthy, "database": broken}, nil)

		rec := httptest.NewRecorder()
		h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Services["source"])
		assert.Equal(t, "unhealthy: connection refused", resp.Services["database"])
	})
}

func TestNewRouter(t *testing.T) {
	source := new(MockSource)
	source.On("List", mock.Anything).Return([]core.Company{{ID: "1", Name: "Acme"}}, nil)
	source.On("Ping", mock.Anything).Return(nil)

	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(reg)
	svc := service.NewCatalogService(source, kafka.NewNoOpProducer(), nil)
	router := NewRouter(NewHandler(svc, metrics, nil), NewHealthHandler(map[string]Pinger{"source": svc}, nil), RouterConfig{
		Metrics:  metrics,
		Gatherer: reg,
		Limiter:  middleware.NewLimiter(0.001, 1),
	})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/companies.json").Code)
	assert.Equal(t, http.StatusTooManyRequests, get("/companies.json").Code)
	assert.Equal(t, http.StatusOK, get("/health/live").Code, "health is not rate limited")
	assert.Equal(t, http.StatusOK, get("/health/ready").Code)
	assert.Equal(t, http.StatusNotFound, get("/directory").Code)

	rec := get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `directory_records_served 1`)
	assert.Contains(t, rec.Body.String(), `status="429"`)
}
