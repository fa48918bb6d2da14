package http_test

import (
	"io"
	"log/slog"
	"regexp"
	"testing"

	httpadapter "fulfillment/internal/adapters/in/http"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pathParam = regexp.MustCompile(`\{([^}]+)\}`)

// Every operation of api/openapi.yml must have exactly one registered route.
func TestRegisterHandlers_MatchesOpenAPIContract(t *testing.T) {
	doc, err := httpadapter.LoadOpenAPI(t.Context())
	require.NoError(t, err)

	want := map[string]struct{}{}
	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			want[method+" "+pathParam.ReplaceAllString(path, ":$1")] = struct{}{}
		}
	}

	e := echo.New()
	server := httpadapter.NewServer(httpadapter.Commands{}, httpadapter.Queries{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	httpadapter.RegisterHandlers(e, server)

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	assert.Equal(t, want, got)
}
