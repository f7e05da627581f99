package repository

import (
	"sync"

	"tvm-calculator/domain"
)

// CalculationRepositoryMemory is an in-memory implementation of CalculationRepository.
type CalculationRepositoryMemory struct {
	mu   sync.RWMutex
	data []domain.CalculationRecord
}

// NewCalculationRepositoryMemory creates a new in-memory calculation repository.
func NewCalculationRepositoryMemory() *CalculationRepositoryMemory {
	return &CalculationRepositoryMemory{
		data: []domain.CalculationRecord{},
	}
}

// Save stores the calculation record in memory.
func (r *CalculationRepositoryMemory) Save(record domain.CalculationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, record)
	return nil
}

func (r *CalculationRepositoryMemory) Recent(limit int) ([]domain.CalculationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.data) {
		limit = len(r.data)
	}
	out := make([]domain.CalculationRecord, 0, limit)
	for i := len(r.data) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.data[i])
	}
	return out, nil
}
