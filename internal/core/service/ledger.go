package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finanzapp/finance-api/internal/core/domain"
	"github.com/finanzapp/finance-api/internal/core/ports"
)

// Ledger implements ports.Ledger in memory. Transactions are kept in
// insertion order and served newest first.
type Ledger struct {
	mu   sync.RWMutex
	txs  []domain.Transaction
	byID map[string]int

	recorder ports.ActivityRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewLedger returns an empty ledger. recorder may be nil.
func NewLedger(recorder ports.ActivityRecorder, log zerolog.Logger) *Ledger {
	return &Ledger{
		byID:     make(map[string]int),
		recorder: recorder,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Append records a transaction as the most recent one. The ledger trusts its
// input; amount and category checks belong to the caller.
func (l *Ledger) Append(kind domain.TransactionKind, amount decimal.Decimal, category string, note *string) domain.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	createdAt := l.now()
	if n := len(l.txs); n > 0 && createdAt.Before(l.txs[n-1].CreatedAt) {
		createdAt = l.txs[n-1].CreatedAt
	}

	tx := domain.Transaction{
		ID:        uuid.NewString(),
		Kind:      kind,
		Amount:    amount,
		Category:  category,
		Note:      copyNote(note),
		CreatedAt: createdAt,
	}
	l.byID[tx.ID] = len(l.txs)
	l.txs = append(l.txs, tx)

	l.log.Debug().
		Str("transaction_id", tx.ID).
		Str("type", string(kind)).
		Str("amount", amount.String()).
		Str("category", category).
		Msg("transaction appended")

	if l.recorder != nil {
		l.recorder.Record(domain.Activity{
			Kind:    domain.ActivityTransactionAdded,
			Subject: tx.ID,
			At:      createdAt,
		})
	}
	return cloneTransaction(tx)
}

// Transactions returns every transaction, newest first.
func (l *Ledger) Transactions() []domain.Transaction {
	return l.Recent(ports.TransactionFilter{})
}

// Recent returns the newest-first feed narrowed by filter.
func (l *Ledger) Recent(filter ports.TransactionFilter) []domain.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Transaction, 0, len(l.txs))
	for i := len(l.txs) - 1; i >= 0; i-- {
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
		if filter.Kind != "" && l.txs[i].Kind != filter.Kind {
			continue
		}
		out = append(out, cloneTransaction(l.txs[i]))
	}
	return out
}

// Find returns the transaction with the given ID.
func (l *Ledger) Find(id string) (domain.Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.byID[id]
	if !ok {
		return domain.Transaction{}, false
	}
	return cloneTransaction(l.txs[i]), true
}

// Summary sums the full collection on every call.
func (l *Ledger) Summary() domain.Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return domain.Summarize(l.txs)
}

// Badges evaluates the badge rules against the current summary.
func (l *Ledger) Badges() []domain.Badge {
	return domain.EvaluateBadges(l.Summary())
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.txs)
}

// Seed loads the two demo movements the mobile client ships with, leaving
// the monthly salary at the top of the feed.
func (l *Ledger) Seed() {
	groceries, salary := "Compras de la semana", "Salario mensual"
	l.Append(domain.KindExpense, decimal.NewFromInt(250_000), "Mercado", &groceries)
	l.Append(domain.KindIncome, decimal.NewFromInt(1_500_000), "Salario", &salary)
}

func cloneTransaction(tx domain.Transaction) domain.Transaction {
	tx.Note = copyNote(tx.Note)
	return tx
}

func copyNote(note *string) *string {
	if note == nil {
		return nil
	}
	n := *note
	return &n
}
