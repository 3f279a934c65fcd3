package responder

import (
	"errors"
	"net/http"

	"github.com/drblury/csvweaver/csvresponse"
)

// WithCSVDefaults sets options applied to every RespondWithCSV call before the
// per-call options, for example a service-wide encoding or delimiter.
func WithCSVDefaults(opts ...csvresponse.Option) ResponderOption {
	return func(r *Responder) {
		r.csvDefaults = append(r.csvDefaults, opts...)
	}
}

// RespondWithCSV formats data as CSV and writes it to the response. Empty data
// produces a 204 without a body. Formatting failures are routed through
// HandleErrors so a configured classifier can pick the status; unclassified
// failures are reported as 500 problem documents.
func (r *Responder) RespondWithCSV(w http.ResponseWriter, req *http.Request, data any, opts ...csvresponse.Option) {
	resp, err := r.BuildCSV(data, opts...)
	if err != nil {
		r.HandleErrors(w, req, err, "failed to format csv response")
		return
	}
	r.WriteCSV(w, resp)
}

// BuildCSV runs csvresponse.Build with the responder defaults followed by opts.
func (r *Responder) BuildCSV(data any, opts ...csvresponse.Option) (*csvresponse.Response, error) {
	merged := make([]csvresponse.Option, 0, len(r.csvDefaults)+len(opts))
	merged = append(merged, r.csvDefaults...)
	merged = append(merged, opts...)
	return csvresponse.Build(data, merged...)
}

// WriteCSV writes an already built CSV response.
func (r *Responder) WriteCSV(w http.ResponseWriter, resp *csvresponse.Response) {
	if w == nil || resp == nil {
		return
	}
	var body []byte
	if resp.Status != http.StatusNoContent {
		body = resp.Body
	}
	r.writeResponse(w, resp.Status, resp.Header, body)
}

// CSVErrorClassifier maps csvresponse failures caused by the supplied data or
// options to 422 Unprocessable Entity. Use it with WithErrorClassifier when the
// rows come from the client rather than from the service itself.
func CSVErrorClassifier(err error) (int, bool) {
	var rowErr *csvresponse.InvalidRowError
	var fmtErr *csvresponse.FormattingError
	switch {
	case errors.As(err, &rowErr), errors.As(err, &fmtErr):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, csvresponse.ErrInvalidOptions), errors.Is(err, csvresponse.ErrUnsupportedInput):
		return http.StatusUnprocessableEntity, true
	}
	return 0, false
}
