// Package export serves CSV downloads built from posted rows or from
// configured MongoDB datasets.
package export

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/csvweaver/csvresponse"
	"github.com/drblury/csvweaver/internal/config"
	"github.com/drblury/csvweaver/internal/mongosource"
	"github.com/drblury/csvweaver/responder"
	"github.com/drblury/csvweaver/router"
)

//go:embed openapi.yaml
var openAPIDocument []byte

const defaultMaxBodyBytes = 8 << 20

var errExportsDisabled = errors.New("no datasets are configured")

// Datasets is the read side of mongosource.Source.
type Datasets interface {
	Names() []string
	Dataset(name string) (config.DatasetConfig, bool)
	Fetch(ctx context.Context, name string) ([]any, error)
}

// Handler renders CSV responses for the export routes.
type Handler struct {
	*responder.Responder
	datasets     Datasets
	maxBodyBytes int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithResponder replaces the responder, typically one carrying the service
// CSV defaults and logger.
func WithResponder(r *responder.Responder) Option {
	return func(h *Handler) {
		if r != nil {
			h.Responder = r
		}
	}
}

// WithDatasets enables the /exports routes.
func WithDatasets(datasets Datasets) Option {
	return func(h *Handler) {
		h.datasets = datasets
	}
}

// WithMaxBodyBytes limits the size of POST /csv bodies.
func WithMaxBodyBytes(limit int64) Option {
	return func(h *Handler) {
		if limit > 0 {
			h.maxBodyBytes = limit
		}
	}
}

// NewHandler constructs a Handler. Without WithDatasets the dataset routes
// answer 404.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		Responder:    responder.NewResponder(),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// OpenAPIDocument returns the validated description of the service routes.
func OpenAPIDocument(ctx context.Context) (*openapi3.T, error) {
	return router.LoadOpenAPI(ctx, openAPIDocument)
}

// Mount registers the export routes on mux.
func (h *Handler) Mount(mux *http.ServeMux) {
	mux.HandleFunc("POST /csv", h.PostCSV)
	mux.HandleFunc("GET /exports", h.ListExports)
	mux.HandleFunc("GET /exports/{name}", h.GetExport)
}

// PostCSV formats the JSON row array in the request body.
func (h *Handler) PostCSV(w http.ResponseWriter, r *http.Request) {
	opts, err := queryOptions(r.URL.Query())
	if err != nil {
		h.HandleBadRequestError(w, r, err, "invalid csv parameters")
		return
	}

	rows, ok := h.ReadRows(w, r, h.maxBodyBytes)
	if !ok {
		return
	}

	h.respond(w, r, rows, opts)
}

// ListExports returns the configured dataset names.
func (h *Handler) ListExports(w http.ResponseWriter, r *http.Request) {
	names := []string{}
	if h.datasets != nil {
		names = h.datasets.Names()
	}
	h.RespondWithJSON(w, r, http.StatusOK, map[string][]string{"datasets": names})
}

// GetExport streams a configured dataset. Dataset settings override the
// service defaults and query parameters override both.
func (h *Handler) GetExport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if h.datasets == nil {
		h.HandleNotFoundError(w, r, errExportsDisabled, "export requested without datasets")
		return
	}
	ds, ok := h.datasets.Dataset(name)
	if !ok {
		h.HandleNotFoundError(w, r, fmt.Errorf("%w: %s", mongosource.ErrUnknownDataset, name), "unknown dataset requested")
		return
	}

	query, err := queryOptions(r.URL.Query())
	if err != nil {
		h.HandleBadRequestError(w, r, err, "invalid csv parameters")
		return
	}

	rows, err := h.datasets.Fetch(r.Context(), name)
	if err != nil {
		if errors.Is(err, mongosource.ErrUnknownDataset) {
			h.HandleNotFoundError(w, r, err, "unknown dataset requested")
			return
		}
		h.HandleAPIError(w, r, http.StatusBadGateway, err, "dataset query failed")
		return
	}

	opts := ds.Options()
	if ds.Filename == "" {
		opts = append(opts, csvresponse.WithAttachment(name+".csv"))
	}
	h.respond(w, r, rows, append(opts, query...))
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, rows []any, opts []csvresponse.Option) {
	resp, err := h.BuildCSV(rows, opts...)
	if err != nil {
		if status, ok := responder.CSVErrorClassifier(err); ok {
			h.HandleAPIError(w, r, status, err, "failed to format csv response")
			return
		}
		h.HandleInternalServerError(w, r, err, "failed to format csv response")
		return
	}
	h.WriteCSV(w, resp)
}

// queryOptions reads delimiter, quoted, encoding and filename. Absent
// parameters produce no option.
func queryOptions(q url.Values) ([]csvresponse.Option, error) {
	var opts []csvresponse.Option
	if q.Has("delimiter") {
		opts = append(opts, csvresponse.WithDelimiter(q.Get("delimiter")))
	}
	if q.Has("quoted") {
		quoted, err := strconv.ParseBool(q.Get("quoted"))
		if err != nil {
			return nil, fmt.Errorf("quoted must be a boolean: %w", err)
		}
		opts = append(opts, csvresponse.WithQuoted(quoted))
	}
	if enc := q.Get("encoding"); enc != "" {
		opts = append(opts, csvresponse.WithEncoding(enc))
	}
	if filename := q.Get("filename"); filename != "" {
		opts = append(opts, csvresponse.WithAttachment(filename))
	}
	return opts, nil
}
