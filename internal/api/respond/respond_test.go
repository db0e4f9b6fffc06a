package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError_Shape(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteBadGateway(rr, "Failed to fetch count")

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Code != 502 || body.Error != "Bad Gateway" || body.Message != "Failed to fetch count" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestWriteRaw_PassesThrough(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteRaw(rr, http.StatusOK, json.RawMessage(`{"a":1}`))
	if rr.Body.String() != `{"a":1}` {
		t.Fatalf("body altered: %s", rr.Body.String())
	}
}
