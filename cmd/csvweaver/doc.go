// Package main implements the csvweaver command-line interface.
//
// The CLI supports:
//   - serve: run the HTTP export service (POST /csv, GET /exports/{name}, /info/*)
//   - convert: turn a JSON or YAML row document into a CSV body on stdout
//   - healthcheck: ask a running service for its readiness, for container probes
//
// Usage:
//
//	csvweaver serve --config csvweaver.yaml
//	csvweaver convert --delimiter ';' --encoding UTF-8 rows.json > rows.csv
//	csvweaver healthcheck --url http://127.0.0.1:8080/info/readyz
//
// Exit codes: 0 success, 1 general failure, 2 invalid input, 3 the rows could
// not be represented in the requested encoding.
package main
