// Package logsink writes audit records to the structured log when no
// MongoDB audit store is configured.
package logsink

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/finanzapp/finance-api/internal/core/domain"
)

type ActivityStore struct {
	log zerolog.Logger
}

func NewActivityStore(log zerolog.Logger) *ActivityStore {
	return &ActivityStore{log: log.With().Str("component", "audit").Logger()}
}

func (s *ActivityStore) Insert(_ context.Context, a *domain.Activity) error {
	ev := s.log.Info().Str("kind", string(a.Kind)).Time("at", a.At)
	if a.AccountID != 0 {
		ev = ev.Int64("account_id", a.AccountID)
	}
	if a.SessionID != "" {
		ev = ev.Str("session_id", a.SessionID)
	}
	if a.Subject != "" {
		ev = ev.Str("subject", a.Subject)
	}
	ev.Msg("activity")
	return nil
}
