package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"fulfillment/api"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// Metrics is what the router needs from the metrics adapter.
type Metrics interface {
	HTTPRecorder
	Handler() http.Handler
}

type openAPIDoc struct {
	json string
}

func (d openAPIDoc) ReadDoc() string {
	return d.json
}

var registerDocOnce sync.Once

// LoadOpenAPI parses and validates the embedded contract.
func LoadOpenAPI(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi contract: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi contract: %w", err)
	}
	return doc, nil
}

// NewRouter builds the echo instance serving the API, the contract under
// /swagger/, Prometheus metrics under /metrics and a /health probe.
func NewRouter(server *Server, metrics Metrics, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(context.Background())
	if err != nil {
		return nil, err
	}

	validator, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}

	docJSON, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode openapi contract: %w", err)
	}
	registerDocOnce.Do(func() {
		swag.Register(swag.Name, openAPIDoc{json: string(docJSON)})
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(RequestMetrics(metrics))
	e.Use(RequestLogger(logger))
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	RegisterHandlers(e, server)

	return e, nil
}
