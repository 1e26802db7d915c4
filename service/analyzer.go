package service

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"finance-advisor/domain"
)

// SpendingAnalyzer aggregates a request's transactions into a SpendingAnalysis.
// It holds no state and is safe for concurrent use.
type SpendingAnalyzer struct{}

func NewSpendingAnalyzer() *SpendingAnalyzer {
	return &SpendingAnalyzer{}
}

// Analyze groups outflows by calendar month and by category. Sums are
// accumulated as decimals and converted to float64 once per bucket.
func (a *SpendingAnalyzer) Analyze(transactions []domain.Transaction) domain.SpendingAnalysis {
	analysis := domain.SpendingAnalysis{
		CategoryTotals:  []domain.CategoryTotal{},
		MonthlyOutflows: []domain.MonthTotal{},
		Trend:           domain.TrendStable,
	}

	totalIn := decimal.Zero
	totalOut := decimal.Zero

	monthSums := map[string]decimal.Decimal{}
	categorySums := map[string]decimal.Decimal{}
	categoryOrder := []string{}

	for _, tx := range transactions {
		switch tx.Direction {
		case domain.Inflow:
			totalIn = totalIn.Add(tx.Amount)
		case domain.Outflow:
			totalOut = totalOut.Add(tx.Amount)

			month := tx.Date.MonthKey()
			monthSums[month] = monthSums[month].Add(tx.Amount)

			if _, seen := categorySums[tx.Category]; !seen {
				categoryOrder = append(categoryOrder, tx.Category)
			}
			categorySums[tx.Category] = categorySums[tx.Category].Add(tx.Amount)
		}
	}

	analysis.TotalInflow = totalIn.InexactFloat64()
	analysis.TotalOutflow = totalOut.InexactFloat64()
	analysis.NetCashFlow = totalIn.Sub(totalOut).InexactFloat64()

	if len(monthSums) == 0 {
		return analysis
	}

	// "2006-01" keys sort chronologically.
	months := make([]string, 0, len(monthSums))
	for m := range monthSums {
		months = append(months, m)
	}
	sort.Strings(months)

	monthly := make([]float64, len(months))
	for i, m := range months {
		monthly[i] = monthSums[m].InexactFloat64()
		analysis.MonthlyOutflows = append(analysis.MonthlyOutflows, domain.MonthTotal{
			Month:  m,
			Amount: monthly[i],
		})
	}

	// Only a positive total can be the top category.
	topAmount := 0.0
	for _, category := range categoryOrder {
		amount := categorySums[category].InexactFloat64()
		analysis.CategoryTotals = append(analysis.CategoryTotals, domain.CategoryTotal{
			Category: category,
			Amount:   amount,
		})
		// Strictly greater keeps the first-seen category on ties.
		if amount > topAmount {
			topAmount = amount
			analysis.TopCategory = category
		}
	}

	analysis.MonthCount = len(monthly)
	analysis.AverageMonthly = stat.Mean(monthly, nil)
	analysis.LatestMonth = monthly[len(monthly)-1]

	if len(monthly) >= AnomalyMinMonths {
		// StdDev is the unbiased (n-1) estimate.
		analysis.StandardDeviation = stat.StdDev(monthly, nil)
		analysis.UnusualSpending = math.Abs(analysis.LatestMonth-analysis.AverageMonthly) > analysis.StandardDeviation
	}

	analysis.Trend = spendingTrend(monthly)
	return analysis
}

// spendingTrend compares the mean of the last two months against the mean of
// every earlier month.
func spendingTrend(monthly []float64) domain.Trend {
	if len(monthly) < TrendMinMonths {
		return domain.TrendStable
	}

	split := len(monthly) - 2
	recent := stat.Mean(monthly[split:], nil)
	older := stat.Mean(monthly[:split], nil)

	switch {
	case recent > older*TrendUpperRatio:
		return domain.TrendIncreasing
	case recent < older*TrendLowerRatio:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}
