package services

import (
	"errors"
	"testing"
)

func TestAppErrorNilReceiver(t *testing.T) {
	var appErr *AppError

	if got := appErr.Error(); got != "" {
		t.Fatalf("expected empty string for nil receiver, got %q", got)
	}
	if appErr.Unwrap() != nil {
		t.Fatalf("expected nil unwrap for nil receiver")
	}
}

func TestAppErrorErrorWithWrappedError(t *testing.T) {
	root := errors.New("db down")
	appErr := newStorageError("query failed", root)

	if got := appErr.Error(); got != "query failed: db down" {
		t.Fatalf("unexpected error text: %q", got)
	}
	if !errors.Is(appErr, root) {
		t.Fatalf("expected wrapped error to be discoverable via errors.Is")
	}
}

func TestErrorConstructorsSetKindAndCode(t *testing.T) {
	cases := []struct {
		err  *AppError
		kind string
		code int
	}{
		{newValidationError("bad"), KindValidation, 400},
		{newUnauthorizedError("no"), KindUnauthorized, 401},
		{newNotFoundError("gone"), KindNotFound, 404},
		{newConflictError("dup"), KindConflict, 409},
		{newStorageError("broke", errors.New("x")), KindStorage, 500},
	}

	for _, tc := range cases {
		if tc.err.Kind != tc.kind {
			t.Fatalf("expected kind %q, got %q", tc.kind, tc.err.Kind)
		}
		if tc.err.HTTPCode != tc.code {
			t.Fatalf("expected HTTP %d for %q, got %d", tc.code, tc.kind, tc.err.HTTPCode)
		}
		if !IsKind(tc.err, tc.kind) {
			t.Fatalf("IsKind should match %q", tc.kind)
		}
	}
}

func TestIsKindRejectsForeignErrors(t *testing.T) {
	if IsKind(errors.New("plain"), KindNotFound) {
		t.Fatalf("plain errors must not match any kind")
	}
	if IsKind(newNotFoundError("gone"), KindConflict) {
		t.Fatalf("kinds must not cross-match")
	}
}
