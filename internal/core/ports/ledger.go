package ports

import (
	"github.com/shopspring/decimal"

	"github.com/finanzapp/finance-api/internal/core/domain"
)

// TransactionFilter narrows the newest-first transaction feed.
type TransactionFilter struct {
	Kind  domain.TransactionKind // empty = both kinds
	Limit int                    // <= 0 = no limit
}

// Ledger owns the transaction collection and its derived values.
type Ledger interface {
	Append(kind domain.TransactionKind, amount decimal.Decimal, category string, note *string) domain.Transaction
	Transactions() []domain.Transaction
	Recent(filter TransactionFilter) []domain.Transaction
	Find(id string) (domain.Transaction, bool)
	Summary() domain.Summary
	Badges() []domain.Badge
}
