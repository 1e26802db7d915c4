package service

import (
	"time"

	"github.com/shopspring/decimal"

	"finance-advisor/domain"
)

func outflow(year int, month time.Month, amount float64, category string) domain.Transaction {
	return domain.Transaction{
		ID:        category + "-" + time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("200601"),
		Date:      domain.NewDate(year, month, 10),
		Amount:    decimal.NewFromFloat(amount),
		Category:  category,
		Direction: domain.Outflow,
	}
}

func inflow(year int, month time.Month, amount float64) domain.Transaction {
	return domain.Transaction{
		ID:        "salary",
		Date:      domain.NewDate(year, month, 1),
		Amount:    decimal.NewFromFloat(amount),
		Category:  "salary",
		Direction: domain.Inflow,
	}
}

func snapshotWithBalance(balance float64) domain.UserFinancialSnapshot {
	return domain.UserFinancialSnapshot{
		UserID: "user-1",
		Accounts: []domain.Account{
			{ID: "acc-1", Kind: "checking", Balance: decimal.NewFromFloat(balance)},
		},
	}
}

func withGoal(s domain.UserFinancialSnapshot, goal float64) domain.UserFinancialSnapshot {
	s.SavingsGoal = decimal.NewNullDecimal(decimal.NewFromFloat(goal))
	return s
}

func withIncome(s domain.UserFinancialSnapshot, income float64) domain.UserFinancialSnapshot {
	s.MonthlyIncome = decimal.NewNullDecimal(decimal.NewFromFloat(income))
	return s
}

func monthlySeries(amounts ...float64) []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(amounts))
	for i, amount := range amounts {
		txs = append(txs, outflow(2024, time.Month(i+1), amount, "groceries"))
	}
	return txs
}
