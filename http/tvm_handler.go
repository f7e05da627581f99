package http

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"tvm-calculator/domain"
	"tvm-calculator/service"
)

type TVMHandler struct {
	service *service.TVMService
}

func NewTVMHandler(service *service.TVMService) *TVMHandler {
	return &TVMHandler{service: service}
}

func (h *TVMHandler) FutureValue(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, domain.TargetFutureValue)
}

func (h *TVMHandler) PresentValue(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, domain.TargetPresentValue)
}

func (h *TVMHandler) Periods(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, domain.TargetPeriods)
}

func (h *TVMHandler) Rate(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, domain.TargetRate)
}

func (h *TVMHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := h.service.History(limit)
	if err != nil {
		log.Printf("Error reading history: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

func (h *TVMHandler) calculate(w http.ResponseWriter, r *http.Request, target domain.Target) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var params domain.TVMParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Calculate(target, params)
	if err != nil {
		log.Printf("Error calculating %s: %v", target, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, result)
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindDomain, domain.KindConvergence:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// writeJSON codifica en buffer primero para no escribir el header si falla
func writeJSON(w http.ResponseWriter, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
