package domain

import "github.com/shopspring/decimal"

// Badge is an achievement computed from the ledger. Badges are never stored.
type Badge struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
	Icon   string `json:"icon"`
}

// Label renders the badge the way the client lists it.
func (b Badge) Label() string {
	return b.Name + ": " + b.Detail + " " + b.Icon
}

const consistencyMinTransactions = 5

var healthySpendingRatio = decimal.RequireFromString("0.7")

var (
	BadgeConsistency = Badge{Name: "Constancia", Detail: "registras tus movimientos seguido", Icon: "🏅"}
	BadgeSavings     = Badge{Name: "Ahorro positivo", Detail: "cerraste el mes en verde", Icon: "🥇"}
	BadgeHealthy     = Badge{Name: "Gasto saludable", Detail: "controlaste tus egresos", Icon: "🥈"}
)

// EvaluateBadges returns the badges earned by s. Each rule is checked
// independently and the result keeps the order consistency, savings,
// healthy spending.
func EvaluateBadges(s Summary) []Badge {
	badges := make([]Badge, 0, 3)
	if s.TransactionCount >= consistencyMinTransactions {
		badges = append(badges, BadgeConsistency)
	}
	if s.Balance.IsPositive() {
		badges = append(badges, BadgeSavings)
	}
	if s.TotalExpense.LessThan(s.TotalIncome.Mul(healthySpendingRatio)) {
		badges = append(badges, BadgeHealthy)
	}
	return badges
}
