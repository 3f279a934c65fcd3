package responder

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/drblury/csvweaver/csvresponse"
)

// ProblemDetails aligns HTTP error responses with RFC 9457 problem documents.
// Row and Encoding are extension members set when the failure came from the
// CSV builder: Row is the zero-based index of the rejected row, Encoding the
// charset the body could not be converted to.
type ProblemDetails struct {
	Type      string `json:"type,omitempty"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	TraceID   string `json:"traceId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Row       *int   `json:"row,omitempty"`
	Encoding  string `json:"encoding,omitempty"`
}

func (r *Responder) statusMetaFor(status int) statusMeta {
	meta, ok := r.statusMetadata[status]
	if !ok {
		meta = statusMeta{}
	}
	return normalizeStatusMeta(status, meta)
}

func (r *Responder) buildProblemDetails(req *http.Request, status int, err error, meta statusMeta) ProblemDetails {
	problem := ProblemDetails{
		Type:      meta.typeURI,
		Title:     meta.title,
		Status:    status,
		Detail:    err.Error(),
		Instance:  requestInstance(req),
		TraceID:   newTraceID(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	var rowErr *csvresponse.InvalidRowError
	if errors.As(err, &rowErr) {
		index := rowErr.Index
		problem.Row = &index
	}
	var fmtErr *csvresponse.FormattingError
	if errors.As(err, &fmtErr) {
		problem.Encoding = fmtErr.Encoding
	}
	return problem
}

func (r *Responder) logProblem(req *http.Request, meta statusMeta, problem ProblemDetails, err error, msgs []string) {
	logger := r.logger().With("error", err.Error(), "traceId", problem.TraceID, "status", problem.Status)
	if problem.Row != nil {
		logger = logger.With("row", *problem.Row)
	}
	if problem.Encoding != "" {
		logger = logger.With("encoding", problem.Encoding)
	}
	if len(msgs) > 0 {
		logger = logger.With("logMessages", msgs)
	}
	logger.Log(requestContext(req), meta.logLevel, meta.logMsg)
}

func normalizeStatusMeta(status int, meta statusMeta) statusMeta {
	if meta.logLevel == 0 {
		meta.logLevel = slog.LevelError
	}
	if meta.title == "" {
		meta.title = http.StatusText(status)
	}
	if meta.logMsg == "" {
		meta.logMsg = meta.title
	}
	if meta.typeURI == "" {
		meta.typeURI = fmt.Sprintf("%s/%d", statusDocBaseURL, status)
	}
	return meta
}
