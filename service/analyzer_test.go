package service

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"finance-advisor/domain"
)

func TestAnalyze_Empty(t *testing.T) {
	analysis := NewSpendingAnalyzer().Analyze(nil)

	if analysis.Trend != domain.TrendStable {
		t.Errorf("expected stable trend, got %s", analysis.Trend)
	}
	if analysis.UnusualSpending {
		t.Errorf("expected no anomaly")
	}
	if analysis.TopCategory != "" {
		t.Errorf("expected no top category, got %q", analysis.TopCategory)
	}
	if analysis.MonthCount != 0 || analysis.AverageMonthly != 0 || analysis.LatestMonth != 0 {
		t.Errorf("expected zeroed monthly figures, got %+v", analysis)
	}
	if analysis.TotalInflow != 0 || analysis.TotalOutflow != 0 || analysis.NetCashFlow != 0 {
		t.Errorf("expected zeroed totals, got %+v", analysis)
	}
}

func TestAnalyze_OnlyInflows(t *testing.T) {
	analysis := NewSpendingAnalyzer().Analyze([]domain.Transaction{
		inflow(2024, time.January, 2000),
		inflow(2024, time.February, 2000),
	})

	if analysis.TotalInflow != 4000 || analysis.NetCashFlow != 4000 {
		t.Errorf("unexpected totals: %+v", analysis)
	}
	if analysis.MonthCount != 0 || analysis.TopCategory != "" {
		t.Errorf("expected no outflow months, got %+v", analysis)
	}
	if analysis.Trend != domain.TrendStable {
		t.Errorf("expected stable trend")
	}
}

func TestAnalyze_Aggregates(t *testing.T) {
	txs := []domain.Transaction{
		outflow(2024, time.March, 300, "rent"),
		outflow(2024, time.January, 100, "food"),
		outflow(2024, time.February, 150, "food"),
		outflow(2024, time.February, 50, "fun"),
		inflow(2024, time.January, 1000),
	}

	analysis := NewSpendingAnalyzer().Analyze(txs)

	if analysis.MonthCount != 3 {
		t.Fatalf("expected 3 months, got %d", analysis.MonthCount)
	}
	if analysis.LatestMonth != 300 {
		t.Errorf("expected latest month to be March (300), got %.2f", analysis.LatestMonth)
	}
	if analysis.AverageMonthly != 200 {
		t.Errorf("expected average 200, got %.2f", analysis.AverageMonthly)
	}
	if analysis.TotalOutflow != 600 || analysis.NetCashFlow != 400 {
		t.Errorf("unexpected totals: out=%.2f net=%.2f", analysis.TotalOutflow, analysis.NetCashFlow)
	}
	if analysis.TopCategory != "rent" {
		t.Errorf("expected rent as top category, got %q", analysis.TopCategory)
	}

	wantMonths := []string{"2024-01", "2024-02", "2024-03"}
	for i, m := range analysis.MonthlyOutflows {
		if m.Month != wantMonths[i] {
			t.Errorf("month %d: expected %s, got %s", i, wantMonths[i], m.Month)
		}
	}

	wantOrder := []string{"rent", "food", "fun"}
	for i, ct := range analysis.CategoryTotals {
		if ct.Category != wantOrder[i] {
			t.Errorf("category %d: expected %s, got %s", i, wantOrder[i], ct.Category)
		}
	}
	if analysis.CategoryAmount("food") != 250 {
		t.Errorf("expected food total 250, got %.2f", analysis.CategoryAmount("food"))
	}
}

func TestAnalyze_TopCategoryTieKeepsFirstSeen(t *testing.T) {
	analysis := NewSpendingAnalyzer().Analyze([]domain.Transaction{
		outflow(2024, time.January, 50, "transport"),
		outflow(2024, time.January, 50, "dining"),
	})

	if analysis.TopCategory != "transport" {
		t.Errorf("expected first-seen category on tie, got %q", analysis.TopCategory)
	}
}

func TestAnalyze_Trend(t *testing.T) {
	cases := []struct {
		name    string
		amounts []float64
		want    domain.Trend
	}{
		{"single month", []float64{500}, domain.TrendStable},
		{"two months large jump", []float64{100, 1000}, domain.TrendStable},
		{"two months large drop", []float64{1000, 100}, domain.TrendStable},
		{"increasing", []float64{100, 200, 300}, domain.TrendIncreasing},
		{"decreasing", []float64{300, 200, 100}, domain.TrendDecreasing},
		{"within ten percent", []float64{100, 100, 105, 105}, domain.TrendStable},
		{"just above ten percent", []float64{100, 100, 112, 112}, domain.TrendIncreasing},
	}

	analyzer := NewSpendingAnalyzer()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := analyzer.Analyze(monthlySeries(c.amounts...)).Trend
			if got != c.want {
				t.Errorf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestAnalyze_Anomaly(t *testing.T) {
	analyzer := NewSpendingAnalyzer()

	spike := analyzer.Analyze(monthlySeries(100, 100, 100, 1000))
	if !spike.UnusualSpending {
		t.Errorf("expected spike to be flagged")
	}
	if math.Abs(spike.StandardDeviation-450) > 1e-9 {
		t.Errorf("expected sample std dev 450, got %f", spike.StandardDeviation)
	}

	steady := analyzer.Analyze(monthlySeries(100, 200, 300))
	if steady.UnusualSpending {
		t.Errorf("deviation equal to one std dev must not be flagged")
	}

	single := analyzer.Analyze(monthlySeries(5000))
	if single.UnusualSpending {
		t.Errorf("a single month can never be anomalous")
	}

	// With two months |latest-avg| is std/sqrt(2), so even a tenfold jump
	// stays below one standard deviation.
	pair := analyzer.Analyze(monthlySeries(100, 1000))
	if pair.UnusualSpending {
		t.Errorf("two months can never be anomalous, got %+v", pair)
	}
	if math.Abs(pair.StandardDeviation-450*math.Sqrt2) > 1e-9 {
		t.Errorf("expected sample std dev %f, got %f", 450*math.Sqrt2, pair.StandardDeviation)
	}
}

func TestAnalyze_ZeroOutflowsHaveNoTopCategory(t *testing.T) {
	analysis := NewSpendingAnalyzer().Analyze([]domain.Transaction{
		outflow(2024, time.January, 0, "fees"),
		outflow(2024, time.February, 0, "transport"),
	})

	if analysis.TopCategory != "" {
		t.Errorf("expected no top category, got %q", analysis.TopCategory)
	}
	if len(analysis.CategoryTotals) != 2 || analysis.MonthCount != 2 {
		t.Errorf("zero outflows are still aggregated, got %+v", analysis)
	}

	insights := NewInsightEngine().Generate(snapshotWithBalance(5000), analysis)
	for _, in := range insights {
		if strings.HasPrefix(in.Title, "Highest Spending") {
			t.Errorf("unexpected top category insight: %+v", in)
		}
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	txs := monthlySeries(400, 350, 500, 900, 650)
	analyzer := NewSpendingAnalyzer()

	first := analyzer.Analyze(txs)
	second := analyzer.Analyze(txs)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical analyses, got %+v and %+v", first, second)
	}
}
