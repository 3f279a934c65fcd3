// Package info exposes build metadata, health probes, and the OpenAPI
// document of the export service.
//
// The HTML endpoint renders an embedded Stoplight Elements page that loads
// the document from OpenAPISpecURL. Use Mount to register every endpoint on a
// ServeMux under a common prefix.
//
// See ExampleInfoHandler_full for a runnable wiring of the handler and probes.
package info
