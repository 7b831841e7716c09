package commonerrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestInternalError_MatchesSentinel(t *testing.T) {
	cause := errors.New("pool exhausted")
	err := InternalError("Server error while retrieving customers", cause)

	if !errors.Is(err, ErrInternalError) {
		t.Fatalf("expected match with ErrInternalError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable via errors.Is")
	}
	if err.HTTPStatus() != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", err.HTTPStatus())
	}
	if err.Message() != "Server error while retrieving customers" {
		t.Errorf("unexpected message %q", err.Message())
	}
}

func TestDomainError_WithFields_KeepsIdentity(t *testing.T) {
	err := ErrValidation.WithFields([]FieldError{{Field: "name", Message: "Name is required"}})

	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected match with ErrValidation after WithFields, got %v", err)
	}
	if len(err.Fields()) != 1 || err.Fields()[0].Field != "name" {
		t.Errorf("unexpected fields %+v", err.Fields())
	}
	if len(ErrValidation.Fields()) != 0 {
		t.Error("WithFields must not mutate the shared sentinel")
	}
}
