package responder

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/drblury/csvweaver/csvresponse"
)

var errMissingBody = errors.New("request body is required")

// ReadRows decodes a JSON or YAML row array from the request body with
// csvresponse.DecodeRows. Bodies larger than limit bytes are answered with
// 413, unreadable or malformed bodies with 400; in both cases ReadRows
// returns false and the handler should stop. A limit of zero or less
// disables the size check.
func (r *Responder) ReadRows(w http.ResponseWriter, req *http.Request, limit int64) ([]any, bool) {
	if req == nil || req.Body == nil {
		r.HandleBadRequestError(w, req, errMissingBody, "failed to read request body")
		return nil, false
	}

	body := req.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, req.Body, limit)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			r.HandleAPIError(w, req, http.StatusRequestEntityTooLarge, err, "request body too large")
			return nil, false
		}
		r.HandleBadRequestError(w, req, err, "failed to read request body")
		return nil, false
	}

	rows, err := csvresponse.DecodeRows(data)
	if err != nil {
		r.HandleBadRequestError(w, req, err, "failed to parse request body")
		return nil, false
	}
	return rows, true
}

func requestInstance(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}
	return req.URL.RequestURI()
}

func requestContext(req *http.Request) context.Context {
	if req == nil {
		return context.Background()
	}
	return req.Context()
}
