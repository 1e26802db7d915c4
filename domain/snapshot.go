package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	Inflow  Direction = "in"
	Outflow Direction = "out"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == Inflow || d == Outflow
}

// dateLayouts are tried in order when decoding a Date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date is a calendar timestamp that accepts plain dates as well as RFC 3339
// timestamps on the wire.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("unrecognised date %q", value)
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

// MonthKey identifies the calendar month of the date, e.g. "2024-03".
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

type Transaction struct {
	ID        string          `json:"id"`
	Date      Date            `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Direction Direction       `json:"type"`
	AccountID string          `json:"accountId,omitempty"`
	Note      string          `json:"note,omitempty"`
}

type Account struct {
	ID      string          `json:"id"`
	Kind    string          `json:"type"` // "checking", "savings", "credit", ...
	Balance decimal.Decimal `json:"balance"`
	Name    string          `json:"name,omitempty"`
}

// UserFinancialSnapshot is the only input of the recommendation pipeline.
type UserFinancialSnapshot struct {
	UserID        string              `json:"userId"`
	Accounts      []Account           `json:"accounts"`
	Transactions  []Transaction       `json:"transactions"`
	MonthlyIncome decimal.NullDecimal `json:"monthlyIncome"`
	SavingsGoal   decimal.NullDecimal `json:"savingsGoal"`
}

// TotalBalance sums the balances of every account.
func (s UserFinancialSnapshot) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, acc := range s.Accounts {
		total = total.Add(acc.Balance)
	}
	return total
}

// DeclaredIncome returns the declared monthly income when it is set and positive.
func (s UserFinancialSnapshot) DeclaredIncome() (float64, bool) {
	if !s.MonthlyIncome.Valid || !s.MonthlyIncome.Decimal.IsPositive() {
		return 0, false
	}
	return s.MonthlyIncome.Decimal.InexactFloat64(), true
}

// Goal returns the declared savings goal when it is set and positive.
func (s UserFinancialSnapshot) Goal() (float64, bool) {
	if !s.SavingsGoal.Valid || !s.SavingsGoal.Decimal.IsPositive() {
		return 0, false
	}
	return s.SavingsGoal.Decimal.InexactFloat64(), true
}
