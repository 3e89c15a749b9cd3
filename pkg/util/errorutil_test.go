package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("update moods: %w", NewNotAuthenticated("/api/moods/get"))
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected wrapped error to match ErrNotAuthenticated")
	}
	if errors.Is(err, ErrFetchFailed) {
		t.Fatalf("did not expect match on ErrFetchFailed")
	}
}

func TestNewFetchErrorMessage(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{status: 500, want: "GET /api/advice returned 500"},
		{status: 0, want: "GET /api/advice failed: boom"},
	}
	for _, tc := range cases {
		var cause error
		if tc.status == 0 {
			cause = errors.New("boom")
		}
		got := NewFetchError(http.MethodGet, "/api/advice", tc.status, cause).Error()
		if got != tc.want {
			t.Fatalf("NewFetchError(%d)=%q want=%q", tc.status, got, tc.want)
		}
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	de := ToDomainError(errors.New("disk on fire"))
	if de.Code != CodeInternal || de.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected mapping: %+v", de)
	}
	if ToDomainError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("decode: %w", NewMalformedCredential(errors.New("bad segment")))
	if !HasCode(err, CodeMalformedCredential) {
		t.Fatalf("expected MALFORMED_CREDENTIAL in chain")
	}
	if HasCode(errors.New("plain"), CodeMalformedCredential) {
		t.Fatalf("plain error has no code")
	}
}
