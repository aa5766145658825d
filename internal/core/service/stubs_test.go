package service

import (
	"sync"

	"github.com/finanzapp/finance-api/internal/core/domain"
)

type captureRecorder struct {
	mu      sync.Mutex
	records []domain.Activity
}

func (r *captureRecorder) Record(a domain.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, a)
}

func (r *captureRecorder) kinds() []domain.ActivityKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityKind, len(r.records))
	for i, a := range r.records {
		out[i] = a.Kind
	}
	return out
}
