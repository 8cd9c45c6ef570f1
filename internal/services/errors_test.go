package services_test

import (
	"errors"
	"strings"
	"testing"

	"laneboard/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("disk I/O error")
	err := services.Wrap(services.ErrInternal, "reorder", "shift backlog", base)
	if !errors.Is(err, services.ErrInternal) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"reorder", "shift backlog", "disk I/O error"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToInternal(t *testing.T) {
	err := services.Wrap(nil, "", "", nil)
	if !errors.Is(err, services.ErrInternal) {
		t.Fatalf("expected internal marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err)
	}
}

type classified struct{ kind string }

func (c classified) Error() string     { return "classified" }
func (c classified) ErrorKind() string { return c.kind }

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want services.Kind
	}{
		{"nil", nil, ""},
		{"not found", services.Wrap(services.ErrNotFound, "reorder", "client 9", nil), services.KindNotFound},
		{"invalid lane", services.ErrInvalidLane, services.KindInvalidLane},
		{"invalid priority", services.Wrap(services.ErrInvalidPriority, "", "0", nil), services.KindInvalidPriority},
		{"plain validation", services.ErrValidation, services.KindValidation},
		{"unclassified", errors.New("boom"), services.KindInternal},
		{"internal wins", services.Wrap(services.ErrInternal, "reorder", "", services.ErrInvalidLane), services.KindInternal},
		{"classifier", classified{kind: "not_found"}, services.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInvalidInputsAreValidationErrors(t *testing.T) {
	if !errors.Is(services.ErrInvalidLane, services.ErrValidation) {
		t.Fatal("invalid lane should be a validation error")
	}
	if !errors.Is(services.ErrInvalidPriority, services.ErrValidation) {
		t.Fatal("invalid priority should be a validation error")
	}
}
