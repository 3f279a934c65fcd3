package info

import (
	"net/http/httptest"
	"testing"

	"github.com/drblury/csvweaver/jsonutil"
	"github.com/drblury/csvweaver/responder"
)

// decodeBody decodes a recorded JSON response into T, failing the test with the
// raw body on error.
func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := jsonutil.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode %T: %v (body: %s)", out, err, rr.Body.String())
	}
	return out
}

func decodeProblem(t *testing.T, rr *httptest.ResponseRecorder) responder.ProblemDetails {
	t.Helper()
	return decodeBody[responder.ProblemDetails](t, rr)
}
