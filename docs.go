// Package csvweaver renders rows as CSV HTTP responses.
//
// The csvresponse package is the core: Build turns a list of rows into a
// complete response with a CRLF-joined body, an optional header line taken
// from the first row's field names, a configurable delimiter and quoting, and
// conversion to the requested character encoding. Empty input yields 204 No
// Content. The remaining packages put that builder behind an HTTP service.
//
// # Packages
//
//   - csvresponse: the builder, its functional options, typed errors, and
//     DecodeRows for order-preserving JSON and YAML row documents.
//   - responder: writes CSV responses and RFC 9457 problem documents carrying
//     ULID trace ids that also appear in the log record.
//   - router: ServeMux wrapper with OpenAPI request validation, CORS,
//     timeouts, and request logging.
//   - info: status, health, version, and OpenAPI documentation endpoints.
//   - probe: MongoDB, HTTP, and custom liveness/readiness checks.
//   - jsonutil: sonic helpers used for JSON payloads.
//
// # Quick Start
//
//	resp := responder.NewResponder(
//	    responder.WithLogger(logger),
//	    responder.WithCSVDefaults(csvresponse.WithEncoding("UTF-8")),
//	)
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("GET /report", func(w http.ResponseWriter, r *http.Request) {
//	    rows := []csvresponse.Record{
//	        {{Name: "region", Value: "north"}, {Name: "orders", Value: 12}},
//	    }
//	    resp.RespondWithCSV(w, r, rows, csvresponse.WithAttachment("report.csv"))
//	})
//
// The csvweaver command in cmd/csvweaver runs the full export service and a
// local convert tool on top of these packages.
package csvweaver
