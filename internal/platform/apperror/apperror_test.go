package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func handle(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return rec, body
}

func TestValidationErrorFields(t *testing.T) {
	rec, body := handle(t, Validation(map[string]string{"appointment_date": "must be today or later"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["success"] != false {
		t.Error("success should be false")
	}
	errs, ok := body["errors"].(map[string]any)
	if !ok {
		t.Fatalf("errors missing: %v", body)
	}
	if errs["appointment_date"] != "must be today or later" {
		t.Errorf("unexpected field error: %v", errs)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	rec, body := handle(t, ValidationMsg("Invalid specialist selected"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body["message"] != "Invalid specialist selected" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestNotFoundError(t *testing.T) {
	rec, body := handle(t, fmt.Errorf("lookup: %w", NotFound("User not found")))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body["message"] != "User not found" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestAuthorizationError(t *testing.T) {
	rec, body := handle(t, Forbidden("Patients can only cancel appointments"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if body["message"] != "Patients can only cancel appointments" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestNotExistsError(t *testing.T) {
	rec, body := handle(t, NotExists("No review found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body["exists"] != false {
		t.Errorf("exists marker missing: %v", body)
	}
}

func TestUnknownErrorIs500(t *testing.T) {
	rec, body := handle(t, errors.New("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body["message"] != "internal server error" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestEchoHTTPErrorPassthrough(t *testing.T) {
	rec, body := handle(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body["message"] != "missing authorization header" {
		t.Errorf("message = %v", body["message"])
	}
}
