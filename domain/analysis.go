package domain

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type MonthTotal struct {
	Month  string  `json:"month"` // "2006-01"
	Amount float64 `json:"amount"`
}

// SpendingAnalysis is derived from the transactions of a single request.
// CategoryTotals keeps categories in first-seen order; MonthlyOutflows is
// chronological.
type SpendingAnalysis struct {
	CategoryTotals    []CategoryTotal `json:"categoryTotals"`
	MonthlyOutflows   []MonthTotal    `json:"monthlyOutflows"`
	AverageMonthly    float64         `json:"avgMonthlyExpense"`
	LatestMonth       float64         `json:"latestMonthExpense"`
	UnusualSpending   bool            `json:"isUnusualSpending"`
	MonthCount        int             `json:"totalMonths"`
	TopCategory       string          `json:"topCategory,omitempty"`
	Trend             Trend           `json:"spendingTrend"`
	TotalInflow       float64         `json:"totalIncome"`
	TotalOutflow      float64         `json:"totalExpenses"`
	NetCashFlow       float64         `json:"netCashflow"`
	StandardDeviation float64         `json:"stdDev"`
}

// CategoryAmount returns the summed outflow of category, or 0 when absent.
func (a SpendingAnalysis) CategoryAmount(category string) float64 {
	for _, ct := range a.CategoryTotals {
		if ct.Category == category {
			return ct.Amount
		}
	}
	return 0
}

// SavingsRate is (inflow - outflow) / inflow as a fraction. It is 0 when
// there is no inflow.
func (a SpendingAnalysis) SavingsRate() float64 {
	if a.TotalInflow <= 0 {
		return 0
	}
	return (a.TotalInflow - a.TotalOutflow) / a.TotalInflow
}
