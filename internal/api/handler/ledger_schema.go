package handler

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finanzapp/finance-api/internal/core/domain"
)

// amountInput accepts "1500000", "12,5" or a bare JSON number.
type amountInput string

func (a *amountInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amountInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = amountInput(n.String())
	return nil
}

type createTransactionRequest struct {
	Type     string      `json:"type"     validate:"required"`
	Amount   amountInput `json:"amount"   validate:"required"`
	Category string      `json:"category" validate:"required,max=80"`
	Note     string      `json:"note"     validate:"max=280"`
}

type transactionResponse struct {
	ID       string                 `json:"id"`
	Type     domain.TransactionKind `json:"type"`
	Amount   decimal.Decimal        `json:"amount"`
	Category string                 `json:"category"`
	Note     *string                `json:"note,omitempty"`
	Date     time.Time              `json:"date"`
}

type listTransactionsResponse struct {
	Data  []transactionResponse `json:"data"`
	Count int                   `json:"count"`
}

type badgeResponse struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
	Icon   string `json:"icon"`
	Label  string `json:"label"`
}

type badgesResponse struct {
	Data []badgeResponse `json:"data"`
}

type summaryResponse struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
	Badges           []badgeResponse `json:"badges"`
}

func toTransactionResponse(tx domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:       tx.ID,
		Type:     tx.Kind,
		Amount:   tx.Amount,
		Category: tx.Category,
		Note:     tx.Note,
		Date:     tx.CreatedAt.UTC(),
	}
}

func toBadgeResponses(badges []domain.Badge) []badgeResponse {
	out := make([]badgeResponse, len(badges))
	for i, b := range badges {
		out[i] = badgeResponse{Name: b.Name, Detail: b.Detail, Icon: b.Icon, Label: b.Label()}
	}
	return out
}
