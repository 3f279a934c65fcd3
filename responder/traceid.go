package responder

import "github.com/oklog/ulid/v2"

// newTraceID returns a lexically sortable id shared by a problem document and
// its log record. ulid.Make draws from a process-wide monotonic source that is
// safe for concurrent use.
func newTraceID() string {
	return ulid.Make().String()
}
