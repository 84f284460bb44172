package handler

import (
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/meeting-room-reservation/internal/service"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    if werr := writeServiceError(c, err); werr != nil {
        t.Fatalf("writeServiceError returned error: %v", werr)
    }
    var body map[string]any
    if uerr := json.Unmarshal(rec.Body.Bytes(), &body); uerr != nil {
        t.Fatalf("response is not JSON: %v", uerr)
    }
    return rec, body
}

func TestWriteServiceErrorStatusMapping(t *testing.T) {
    cases := []struct {
        name       string
        err        error
        wantStatus int
        wantError  string
    }{
        {"validation", &service.Error{Kind: service.KindValidation, Message: "bad input"}, http.StatusBadRequest, "ValidationError"},
        {"business rule", &service.Error{Kind: service.KindBusinessRule, Message: "too late to cancel"}, http.StatusBadRequest, "BusinessRule"},
        {"not found", &service.Error{Kind: service.KindNotFound, Message: "no such room"}, http.StatusNotFound, "NotFound"},
        {"conflict", &service.Error{Kind: service.KindConflict, Message: "slot taken"}, http.StatusConflict, "Conflict"},
        {"internal", &service.Error{Kind: service.KindInternal, Message: "boom"}, http.StatusInternalServerError, "Internal"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec, body := renderError(t, tc.err)
            if rec.Code != tc.wantStatus {
                t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
            }
            if body["error"] != tc.wantError {
                t.Fatalf("error field = %v, want %s", body["error"], tc.wantError)
            }
            if body["message"] == "" || body["message"] == nil {
                t.Fatalf("message field missing: %v", body)
            }
        })
    }
}

func TestWriteServiceErrorInProgress(t *testing.T) {
    rec, body := renderError(t, &service.Error{Kind: service.KindInProgress, Message: "request already being processed"})
    if rec.Code != http.StatusAccepted {
        t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
    }
    // 202 is informational, not an error: the body carries only a message.
    if _, ok := body["error"]; ok {
        t.Fatalf("202 response must not carry an error field: %v", body)
    }
    if body["message"] != "request already being processed" {
        t.Fatalf("message = %v", body["message"])
    }
}

func TestWriteServiceErrorUntaggedHidesDetail(t *testing.T) {
    rec, body := renderError(t, errors.New("dial tcp 127.0.0.1:3306: connection refused"))
    if rec.Code != http.StatusInternalServerError {
        t.Fatalf("status = %d, want 500", rec.Code)
    }
    if body["message"] != "internal server error" {
        t.Fatalf("driver detail leaked: %v", body["message"])
    }
}
