package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gyeh/notewizard/internal/model"
	"github.com/gyeh/notewizard/internal/wizard"
)

const sessionDoc = `{
	"selected": [{"id": 2, "code": "R07.9", "title": "Chest pain", "gaps": ["smoking status unclear"], "evidence": ["chest pain"]}],
	"suggested": [{"code": "99213", "classification": "code", "reimbursement": 92.5}],
	"note": "Chest pain for 2 days.",
	"patient": {"name": "Jane Roe", "patientId": "MRN-1"}
}`

func newTestServer(t *testing.T, fn func(context.Context, *model.FinalizeRequest) (*model.FinalizeResult, error), exportDir string) (*echo.Echo, *Handler) {
	t.Helper()
	h := NewHandler(fn, nil, exportDir, zerolog.Nop())
	return New(h, zerolog.Nop()), h
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("failed to parse JSON response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, out
}

func createSession(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec, out := do(t, e, http.MethodPost, "/api/v1/sessions", sessionDoc)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	id, _ := out["id"].(string)
	if id == "" {
		t.Fatal("expected session id in response")
	}
	return id
}

func TestCreateAndGetSession(t *testing.T) {
	e, _ := newTestServer(t, nil, "")
	id := createSession(t, e)

	rec, out := do(t, e, http.MethodGet, "/api/v1/sessions/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if out["activeStep"] != float64(1) {
		t.Errorf("activeStep = %v", out["activeStep"])
	}
	steps, ok := out["steps"].([]any)
	if !ok || len(steps) != 6 {
		t.Fatalf("expected 6 steps, got %v", out["steps"])
	}
	qs, _ := out["questions"].([]any)
	if len(qs) != 1 {
		t.Errorf("expected 1 question, got %d", len(qs))
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("expected request id header")
	}
}

func TestGetSession_Errors(t *testing.T) {
	e, _ := newTestServer(t, nil, "")

	rec, _ := do(t, e, http.MethodGet, "/api/v1/sessions/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	rec, _ = do(t, e, http.MethodGet, "/api/v1/sessions/6f1c2d7e-8a4b-4c3d-9e2f-1a2b3c4d5e6f", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	rec, _ = do(t, e, http.MethodPost, "/api/v1/sessions", "[1, 2]")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-object document, got %d", rec.Code)
	}
}

func TestStepEvidenceSelect(t *testing.T) {
	e, _ := newTestServer(t, nil, "")
	id := createSession(t, e)
	base := "/api/v1/sessions/" + id

	_, out := do(t, e, http.MethodPost, base+"/step", `{"id": 42}`)
	if out["activeStep"] != float64(1) {
		t.Errorf("unknown step should fall back to 1, got %v", out["activeStep"])
	}

	rec, _ := do(t, e, http.MethodPost, base+"/select", `{"id": 404}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown item, got %d", rec.Code)
	}
	do(t, e, http.MethodPost, base+"/select", `{"id": 2}`)
	_, out = do(t, e, http.MethodPost, base+"/evidence", `{"visible": true}`)

	hs, _ := out["highlights"].([]any)
	if len(hs) != 1 {
		t.Fatalf("expected 1 highlight, got %v", out["highlights"])
	}
	h := hs[0].(map[string]any)
	if h["start"] != float64(0) || h["end"] != float64(10) {
		t.Errorf("highlight = %v", h)
	}

	_, out = do(t, e, http.MethodPost, base+"/evidence", ``)
	if out["evidenceVisible"] != false {
		t.Errorf("empty evidence body should toggle off, got %v", out["evidenceVisible"])
	}
}

func TestNoteAndOverrides(t *testing.T) {
	e, _ := newTestServer(t, nil, "")
	id := createSession(t, e)
	base := "/api/v1/sessions/" + id

	_, out := do(t, e, http.MethodPut, base+"/note", `{"text": "Plan: rest", "cursor": 6}`)
	if out["note"] != "Plan: rest" {
		t.Errorf("note = %v", out["note"])
	}
	_, out = do(t, e, http.MethodPost, base+"/insert", `{"text": "fluids and "}`)
	if out["note"] != "Plan: fluids and rest" {
		t.Errorf("note after insert = %v", out["note"])
	}

	rec, _ := do(t, e, http.MethodPut, base+"/overrides", `{"9": {"title": "x"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown stage, got %d", rec.Code)
	}
	_, out = do(t, e, http.MethodPut, base+"/overrides", `{"5": {"title": "Attest"}}`)
	steps := out["steps"].([]any)
	if steps[4].(map[string]any)["title"] != "Attest" {
		t.Errorf("override not applied: %v", steps[4])
	}
}

func TestFinalize(t *testing.T) {
	dir := t.TempDir()
	e, _ := newTestServer(t, nil, dir)
	id := createSession(t, e)

	rec, out := do(t, e, http.MethodPost, "/api/v1/sessions/"+id+"/finalize", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := out["result"].(map[string]any)
	if result["exportReady"] != true {
		t.Errorf("result = %v", result)
	}
	path, _ := out["exportPath"].(string)
	if path == "" {
		t.Fatal("expected export path")
	}
	requestID, _ := result["requestId"].(string)
	if requestID == "" || !strings.Contains(filepath.Base(path), requestID) {
		t.Errorf("export %q not named after request %q", path, requestID)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
	view := out["view"].(map[string]any)
	if view["finalize"].(map[string]any)["state"] != "succeeded" {
		t.Errorf("view finalize = %v", view["finalize"])
	}
}

func TestFinalize_Failure(t *testing.T) {
	e, _ := newTestServer(t, func(ctx context.Context, req *model.FinalizeRequest) (*model.FinalizeResult, error) {
		return nil, errors.New("boom")
	}, "")
	id := createSession(t, e)

	rec, out := do(t, e, http.MethodPost, "/api/v1/sessions/"+id+"/finalize", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	fin := out["view"].(map[string]any)["finalize"].(map[string]any)
	if fin["error"] != "boom" {
		t.Errorf("finalize error = %v", fin["error"])
	}
}

func TestHandler_Add(t *testing.T) {
	e, h := newTestServer(t, nil, "")
	s := wizard.New(wizard.Input{}, nil)
	id := h.Add(s)

	_, out := do(t, e, http.MethodGet, "/api/v1/sessions/"+id.String(), "")
	if out["activeStep"] != float64(3) {
		t.Errorf("empty session activeStep = %v, want 3", out["activeStep"])
	}
}

func TestSelectSuggestedItem(t *testing.T) {
	e, _ := newTestServer(t, nil, "")
	rec, out := do(t, e, http.MethodPost, "/api/v1/sessions", `{
		"selected": [{"code": "I10", "evidence": ["hypertension"]}],
		"suggested": [{"code": "99213", "evidence": ["office visit"]}],
		"note": "Office visit for hypertension follow-up."
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	base := "/api/v1/sessions/" + out["id"].(string)

	do(t, e, http.MethodPost, base+"/evidence", `{"visible": true}`)
	rec, out = do(t, e, http.MethodPost, base+"/select", `{"list": "suggested", "id": 1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	hs, _ := out["highlights"].([]any)
	if len(hs) != 1 || hs[0].(map[string]any)["text"] != "Office visit" {
		t.Errorf("highlights = %v", out["highlights"])
	}
	sel := out["selectedItem"].(map[string]any)
	if sel["list"] != "suggested" || sel["id"] != float64(1) {
		t.Errorf("selectedItem = %v", sel)
	}

	rec, _ = do(t, e, http.MethodPost, base+"/select", `{"list": "compliance", "id": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown list, got %d", rec.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	e, _ := newTestServer(t, nil, "")
	id := createSession(t, e)
	path := "/api/v1/sessions/" + id

	rec, _ := do(t, e, http.MethodDelete, path, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec, _ = do(t, e, http.MethodGet, path, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
	rec, _ = do(t, e, http.MethodDelete, path, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting twice, got %d", rec.Code)
	}
}
