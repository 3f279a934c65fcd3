package info

import (
	_ "embed"
	"html/template"
	"strings"
)

const openAPISpecPath = "/openapi.json"

//go:embed assets/stoplight.html
var openapiHTMLStoplight []byte

var defaultOpenAPITemplate = template.Must(
	template.New("openapi-stoplight").Parse(string(openapiHTMLStoplight)),
)

// OpenAPISpecURL returns the URL of the JSON endpoint relative to baseURL.
func OpenAPISpecURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + openAPISpecPath
}
