package testutil

import (
	"errors"
	"testing"

	"spice/internal/assets"
	apperrors "spice/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertAssetExists fails the test unless name is present in store.
func AssertAssetExists(t *testing.T, store *assets.Store, name string) {
	t.Helper()

	ok, err := store.Exists(name)
	if err != nil {
		t.Fatalf("failed to stat asset %q: %v", name, err)
	}
	if !ok {
		t.Errorf("expected asset %q to exist", name)
	}
}

// AssertAssetMissing fails the test if name is present in store.
func AssertAssetMissing(t *testing.T, store *assets.Store, name string) {
	t.Helper()

	ok, err := store.Exists(name)
	if err != nil {
		t.Fatalf("failed to stat asset %q: %v", name, err)
	}
	if ok {
		t.Errorf("expected asset %q to be absent", name)
	}
}
