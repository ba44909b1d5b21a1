package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInvalidOfferData, status: http.StatusUnprocessableEntity, publicMsg: "offer data is invalid", detailsOK: true},
		{code: CodeInvalidBatch, status: http.StatusBadRequest, publicMsg: "batch request is malformed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "foo"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestHasCodeFollowsWrappedChain(t *testing.T) {
	typed := New(CodeInvalidOfferData, "base cost missing")
	outer := fmt.Errorf("pricing offer: %w", typed)
	if !HasCode(outer, CodeInvalidOfferData) {
		t.Fatalf("expected code to be found through fmt wrap")
	}
	if HasCode(outer, CodeInvalidBatch) {
		t.Fatalf("unexpected code match")
	}
	if HasCode(nil, CodeInternal) {
		t.Fatalf("nil error must not match")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeDependency, stdErrors.New("connection refused"), "load offers")
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d", len(dump.Chain))
	}
}

func TestEnsureWrapsUntypedErrors(t *testing.T) {
	typed := New(CodeNotFound, "offer not found")
	if got := Ensure(fmt.Errorf("quote: %w", typed)); got != typed {
		t.Fatalf("expected the typed error from the chain")
	}

	raw := stdErrors.New("socket closed")
	got := Ensure(raw)
	if got.Code() != CodeInternal || !stdErrors.Is(got, raw) {
		t.Fatalf("expected internal wrap of raw error, got %v", got)
	}
	if Ensure(nil).Code() != CodeInternal {
		t.Fatalf("nil should still produce an internal error")
	}
}

func TestExposeMessageOnlyForClientErrors(t *testing.T) {
	for _, code := range []Code{CodeValidation, CodeNotFound, CodeInvalidOfferData, CodeInvalidBatch} {
		if !MetadataFor(code).ExposeMessage {
			t.Fatalf("code %s should expose its message", code)
		}
	}
	for _, code := range []Code{CodeInternal, CodeDependency} {
		if MetadataFor(code).ExposeMessage {
			t.Fatalf("code %s must hide its message", code)
		}
	}
}
