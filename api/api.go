// Package api holds the OpenAPI contract of the HTTP interface.
package api

import _ "embed"

// OpenAPI is the OpenAPI 3 document served by the HTTP adapter, in YAML.
//
//go:embed openapi.yml
var OpenAPI []byte
