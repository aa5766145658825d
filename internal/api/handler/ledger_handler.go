package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finanzapp/finance-api/internal/api/metrics"
	"github.com/finanzapp/finance-api/internal/core/domain"
	"github.com/finanzapp/finance-api/internal/core/ports"
)

const maxListLimit = 500

// LedgerHandler exposes the ledger over HTTP.
type LedgerHandler struct {
	ledger      ports.Ledger
	idempotency ports.IdempotencyStore
	log         zerolog.Logger
}

func NewLedgerHandler(ledger ports.Ledger, idempotency ports.IdempotencyStore, log zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, idempotency: idempotency, log: log}
}

// Create handles POST /v1/transactions.
//
// @Summary      Record an income or expense
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                    false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createTransactionRequest  true   "Transaction"
// @Success      201              {object}  transactionResponse
// @Success      200              {object}  transactionResponse  "replayed Idempotency-Key"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse  "Idempotency-Key still in progress"
// @Failure      422              {object}  errorResponse
// @Router       /v1/transactions [post]
func (h *LedgerHandler) Create(c echo.Context) error {
	var req createTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	kind, err := domain.ParseKind(req.Type)
	if err != nil {
		return err
	}
	amount, err := domain.ParseAmount(string(req.Amount))
	if err != nil {
		return err
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return domain.ErrMissingField
	}
	var note *string
	if n := strings.TrimSpace(req.Note); n != "" {
		note = &n
	}

	key := strings.TrimSpace(c.Request().Header.Get("Idempotency-Key"))
	claimed := false
	if key != "" {
		prev, ok, err := h.claim(c, key)
		if err != nil {
			return err
		}
		if prev != nil {
			metrics.IdempotentReplaysTotal.Inc()
			return c.JSON(http.StatusOK, toTransactionResponse(*prev))
		}
		claimed = ok
	}

	tx := h.ledger.Append(kind, amount, category, note)

	if claimed {
		if err := h.idempotency.Remember(c.Request().Context(), key, tx.ID); err != nil {
			h.log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("failed to store idempotency key")
		}
	}

	metrics.TransactionsAppendedTotal.WithLabelValues(string(kind)).Inc()
	metrics.LedgerBalance.Set(h.ledger.Summary().Balance.InexactFloat64())

	ev := h.log.Info().Str("transaction_id", tx.ID).Str("type", string(kind))
	if acct, err := ctxAccount(c); err == nil {
		ev = ev.Int64("account_id", acct.ID)
	}
	ev.Msg("transaction recorded")

	return c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

// claim reserves key for this request. A key that already produced a
// transaction returns it for replay. claimed is false when the request goes
// ahead without a reservation because the store is unavailable or the key
// points at a transaction this process does not hold.
func (h *LedgerHandler) claim(c echo.Context, key string) (prev *domain.Transaction, claimed bool, err error) {
	id, reserved, err := h.idempotency.Reserve(c.Request().Context(), key)
	switch {
	case err != nil:
		h.log.Warn().Err(err).Msg("idempotency reserve failed, processing anyway")
		return nil, false, nil
	case reserved:
		return nil, true, nil
	case id == "":
		return nil, false, echo.NewHTTPError(http.StatusConflict, "a request with this Idempotency-Key is still in progress")
	}

	tx, ok := h.ledger.Find(id)
	if !ok {
		h.log.Warn().Str("transaction_id", id).Msg("idempotency key refers to an unknown transaction, processing anyway")
		return nil, false, nil
	}
	return &tx, false, nil
}

// List handles GET /v1/transactions.
//
// @Summary      List transactions, newest first
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        type   query     string  false  "income or expense"
// @Param        limit  query     int     false  "Maximum number of items"
// @Success      200    {object}  listTransactionsResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/transactions [get]
func (h *LedgerHandler) List(c echo.Context) error {
	var filter ports.TransactionFilter

	if raw := c.QueryParam("type"); raw != "" {
		kind, err := domain.ParseKind(raw)
		if err != nil {
			return err
		}
		filter.Kind = kind
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		filter.Limit = min(limit, maxListLimit)
	}

	txs := h.ledger.Recent(filter)
	data := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		data[i] = toTransactionResponse(tx)
	}
	return c.JSON(http.StatusOK, listTransactionsResponse{Data: data, Count: len(data)})
}

// Summary handles GET /v1/summary.
//
// @Summary      Totals, balance and badges
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  summaryResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/summary [get]
func (h *LedgerHandler) Summary(c echo.Context) error {
	s := h.ledger.Summary()
	return c.JSON(http.StatusOK, summaryResponse{
		TotalIncome:      s.TotalIncome,
		TotalExpense:     s.TotalExpense,
		Balance:          s.Balance,
		TransactionCount: s.TransactionCount,
		Badges:           toBadgeResponses(domain.EvaluateBadges(s)),
	})
}

// Badges handles GET /v1/badges.
//
// @Summary      Earned badges
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  badgesResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/badges [get]
func (h *LedgerHandler) Badges(c echo.Context) error {
	return c.JSON(http.StatusOK, badgesResponse{Data: toBadgeResponses(h.ledger.Badges())})
}
