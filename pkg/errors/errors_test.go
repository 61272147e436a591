package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection reset")
	err := Wrap(CodeTransport, cause, "request failed")

	if err.Code() != CodeTransport {
		t.Fatalf("expected transport code, got %s", err.Code())
	}
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestAsUnwrapsThroughFmt(t *testing.T) {
	inner := New(CodeParse, "missing product id")
	outer := fmt.Errorf("decoding search response: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected As to find the typed error")
	}
	if typed.Code() != CodeParse {
		t.Fatalf("expected parse code, got %s", typed.Code())
	}
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	if typed := As(stdErrors.New("plain")); typed != nil {
		t.Fatalf("expected nil for plain error, got %v", typed)
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to internal metadata, got %d", meta.HTTPStatus)
	}
}

func TestMetadataTaxonomy(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeConfiguration, http.StatusPreconditionFailed},
		{CodeTransport, http.StatusBadGateway},
		{CodeUpstream, http.StatusBadGateway},
		{CodeParse, http.StatusBadGateway},
		{CodeUnsupported, http.StatusNotImplemented},
	}
	for _, tt := range tests {
		if got := MetadataFor(tt.code).HTTPStatus; got != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, got)
		}
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("timeout")
	err := Wrap(CodeTransport, cause, "request failed")

	d := Dump(err)
	if d.Code != CodeTransport {
		t.Fatalf("expected code in dump, got %q", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d: %v", len(d.Chain), d.Chain)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeUpstream, "status 500").WithDetails(map[string]any{"status": 500})
	details, ok := err.Details().(map[string]any)
	if !ok || details["status"] != 500 {
		t.Fatalf("unexpected details: %v", err.Details())
	}
}
