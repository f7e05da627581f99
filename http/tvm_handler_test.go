package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tvm-calculator/domain"
	"tvm-calculator/repository"
	"tvm-calculator/service"
)

func newHandler() *TVMHandler {
	svc := service.NewTVMService(
		service.NewTVMEngine(service.DefaultSolverConfig),
		repository.NewCalculationRepositoryMemory(),
		repository.NewMockCache(),
	)
	return NewTVMHandler(svc)
}

func post(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestFutureValueHandler_OK(t *testing.T) {
	handler := newHandler()

	w := post(handler.FutureValue, "/tvm/future-value", `{
		"periods": 10,
		"rate": 0.05,
		"payment": 100
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result domain.CalculationResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Target != domain.TargetFutureValue || result.Rounded.String() != "1257.79" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestHandlers_StatusCodes(t *testing.T) {
	handler := newHandler()
	cases := []struct {
		name string
		h    http.HandlerFunc
		body string
		want int
	}{
		{"bad json", handler.PresentValue, `{invalid-json}`, http.StatusBadRequest},
		{"missing rate", handler.PresentValue, `{"periods": 10, "future_value": 100}`, http.StatusBadRequest},
		{"zero rate annuity", handler.FutureValue, `{"periods": 10, "rate": 0, "payment": 5}`, http.StatusUnprocessableEntity},
		{"bad log argument", handler.Periods, `{"rate": 0.1, "present_value": 100, "future_value": -5}`, http.StatusUnprocessableEntity},
		{"no convergence", handler.Rate, `{"periods": 5, "present_value": 0, "future_value": 100}`, http.StatusUnprocessableEntity},
		{"rate ok", handler.Rate, `{"periods": 10, "present_value": 1000, "future_value": 1628.894626777442}`, http.StatusOK},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if w := post(c.h, "/tvm", c.body); w.Code != c.want {
				t.Errorf("expected %d, got %d: %s", c.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestCalculateHandler_MethodNotAllowed(t *testing.T) {
	handler := newHandler()

	req := httptest.NewRequest(http.MethodGet, "/tvm/rate", nil)
	w := httptest.NewRecorder()
	handler.Rate(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestHistoryHandler(t *testing.T) {
	handler := newHandler()
	post(handler.FutureValue, "/tvm/future-value", `{"periods": 2, "rate": 0.1, "present_value": 100}`)
	post(handler.PresentValue, "/tvm/present-value", `{"periods": 2, "rate": 0.1, "future_value": 121}`)

	req := httptest.NewRequest(http.MethodGet, "/tvm/history?limit=1", nil)
	w := httptest.NewRecorder()
	handler.History(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var records []domain.CalculationRecord
	if err := json.NewDecoder(w.Body).Decode(&records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 || records[0].Target != domain.TargetPresentValue {
		t.Errorf("expected latest present value record, got %+v", records)
	}

	req = httptest.NewRequest(http.MethodGet, "/tvm/history?limit=abc", nil)
	w = httptest.NewRecorder()
	handler.History(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", w.Code)
	}
}
