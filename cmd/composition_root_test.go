package cmd_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_PostgresDSN(t *testing.T) {
	c := cmd.Config{
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "fulfillment",
		DBPassword: "secret",
		DBName:     "fulfillment",
		DBSslMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=fulfillment password=secret dbname=fulfillment sslmode=disable",
		c.PostgresDSN())
}

func TestNewCompositionRoot_RejectsInvalidTolerance(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())

	for _, raw := range []string{"abc", "-1"} {
		_, err := cmd.NewCompositionRoot(cmd.Config{DeviationTolerancePercent: raw}, factory, logger)
		assert.Error(t, err, "tolerance %q", raw)
	}
}

func TestCompositionRoot_ServesOverMemoryStorage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factory := memory.NewUnitOfWorkFactory(memory.NewStore())

	app, err := cmd.NewCompositionRoot(cmd.Config{
		StorageDriver:         cmd.StorageDriverMemory,
		ActiveOrderStaleAfter: time.Minute,
	}, factory, logger)
	require.NoError(t, err)

	e, err := app.CreateRouter()
	require.NoError(t, err)

	for _, path := range []string{"/health", "/api/v1/items", "/api/v1/orders", "/metrics"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	jobs := app.CreateJobManager()
	require.NoError(t, jobs.StartAll())
	jobs.StopAll()
}
