package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("1500000")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.NewFromInt(1_500_000)))

	d, err = ParseAmount(" 12,50 ")
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	for _, bad := range []string{"", "abc", "0", "-3", "1,2,3"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", bad)
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Income ")
	require.NoError(t, err)
	assert.Equal(t, KindIncome, k)

	_, err = ParseKind("transfer")
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Transaction{
		{Kind: KindExpense, Amount: decimal.NewFromInt(250_000)},
		{Kind: KindIncome, Amount: decimal.NewFromInt(1_500_000)},
	})
	assert.True(t, s.TotalIncome.Equal(decimal.NewFromInt(1_500_000)))
	assert.True(t, s.TotalExpense.Equal(decimal.NewFromInt(250_000)))
	assert.True(t, s.Balance.Equal(decimal.NewFromInt(1_250_000)))
	assert.Equal(t, 2, s.TransactionCount)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Contraseña incorrecta.", UserMessage(ErrInvalidCredential))

	_, err := ParseAmount("")
	assert.Equal(t, "Ingresa al menos monto y categoría.", UserMessage(err))

	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}

func TestUserMessage_WrappedSentinelsResolveInFixedOrder(t *testing.T) {
	err := errors.Join(ErrInvalidAmount, ErrSessionMismatch)
	for range 50 {
		assert.Equal(t, "Tu sesión terminó. Inicia sesión de nuevo.", UserMessage(err))
	}

	err = fmt.Errorf("%w: %w", ErrMissingField, ErrInvalidKind)
	assert.Equal(t, "Datos incompletos.", UserMessage(err))
}
