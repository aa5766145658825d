package ports

import (
	"context"

	"github.com/finanzapp/finance-api/internal/core/domain"
)

// ActivityRecorder accepts audit records without blocking the caller.
type ActivityRecorder interface {
	Record(a domain.Activity)
}

// ActivityStore writes audit records to their final destination.
type ActivityStore interface {
	Insert(ctx context.Context, a *domain.Activity) error
}
