package checklist

import (
	stdcontext "context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newToggleRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/checklist/"+id+"/toggle", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(stdcontext.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestToggleCommandHandler_NoDateReturnsConflict(t *testing.T) {
	store, _ := openTestStore(t)
	handler := ToggleCommandHandler(store)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newToggleRequest("BranchA_Widget"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "report date") {
		t.Fatalf("expected report date message, got %q", rr.Body.String())
	}
}

func TestToggleCommandHandler_FlipsState(t *testing.T) {
	store, _ := openTestStore(t)
	if err := store.SetReportDate("2026-08-28"); err != nil {
		t.Fatalf("set date: %v", err)
	}
	handler := ToggleCommandHandler(store)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newToggleRequest("BranchA_Widget"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"checked":true`) {
		t.Fatalf("expected checked true, got %q", rr.Body.String())
	}
	if !store.IsChecked("BranchA_Widget") {
		t.Fatalf("store state not updated")
	}
}

func TestSetDateCommandHandler(t *testing.T) {
	store, _ := openTestStore(t)
	handler := SetDateCommandHandler(store)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/session/date", strings.NewReader(`{"date":"2026-08-28"}`))
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if store.ReportDate() != "2026-08-28" {
		t.Fatalf("date not set: %q", store.ReportDate())
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/session/date", strings.NewReader(`{"date":"bad"}`))
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
