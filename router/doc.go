// Package router wraps http.ServeMux with OpenAPI validation, CORS,
// timeouts, and logging defaults. Validation failures are rendered as problem
// documents when a responder is supplied with WithResponder.
// ExampleNew_customOptions demonstrates how to combine built-in and custom
// middlewares; ExampleLoadOpenAPI shows query validation in front of a CSV
// endpoint.
package router
