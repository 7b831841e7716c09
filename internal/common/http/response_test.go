package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	commonerrors "github.com/vmorozov/customer-hub/internal/common/errors"
)

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusOK, "Customers retrieved successfully", map[string]int{"n": 1})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != true || body["message"] != "Customers retrieved successfully" {
		t.Errorf("unexpected body %v", body)
	}
	if _, ok := body["errors"]; ok {
		t.Error("errors must be omitted on success")
	}
}

func TestWriteFailure_OmitsData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteFailure(rec, http.StatusNotFound, "Customer not found")

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false {
		t.Error("expected success=false")
	}
	if _, ok := body["data"]; ok {
		t.Error("data must be omitted on failure")
	}
}

func TestWriteFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteFieldErrors(rec, http.StatusBadRequest, "Validation failed", []commonerrors.FieldError{
		{Field: "name", Message: "Name must be between 2 and 100 characters"},
	})

	var body struct {
		Errors []commonerrors.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Errors) != 1 || body.Errors[0].Field != "name" {
		t.Errorf("unexpected errors %+v", body.Errors)
	}
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))

	var payload struct {
		Email string `json:"email"`
	}
	if err := DecodeJSON(req, &payload); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if payload.Email != "a@b.co" {
		t.Errorf("unexpected payload %+v", payload)
	}
}
