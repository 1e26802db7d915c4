package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"finance-advisor/domain"
)

// InsightEngine evaluates a fixed rule table against the analysis and account
// state. Each rule adds at most one insight.
type InsightEngine struct {
	rules []insightRule
}

// insightContext carries the figures every rule reads.
type insightContext struct {
	snapshot domain.UserFinancialSnapshot
	analysis domain.SpendingAnalysis
	balance  float64
}

type insightRule func(c insightContext) (domain.Insight, bool)

func NewInsightEngine() *InsightEngine {
	return &InsightEngine{
		rules: []insightRule{
			unusualSpendingRule,
			topCategoryRule,
			balanceTierRule,
			savingsGoalRule,
			savingsRateRule,
			spendingTrendRule,
		},
	}
}

// Generate returns the insights sorted by priority, highest first. Insights of
// equal priority keep the order their rules ran in.
func (e *InsightEngine) Generate(
	snapshot domain.UserFinancialSnapshot,
	analysis domain.SpendingAnalysis,
) []domain.Insight {
	c := insightContext{
		snapshot: snapshot,
		analysis: analysis,
		balance:  snapshot.TotalBalance().InexactFloat64(),
	}

	insights := []domain.Insight{}
	for _, rule := range e.rules {
		if insight, ok := rule(c); ok {
			insights = append(insights, insight)
		}
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority > insights[j].Priority
	})
	return insights
}

func unusualSpendingRule(c insightContext) (domain.Insight, bool) {
	a := c.analysis
	if !a.UnusualSpending {
		return domain.Insight{}, false
	}

	direction := "higher"
	if a.LatestMonth < a.AverageMonthly {
		direction = "lower"
	}

	return domain.Insight{
		Kind:     domain.InsightWarning,
		Category: "spending",
		Title:    "Unusual Spending Detected",
		Message: fmt.Sprintf("Your spending this month is %s, significantly %s than your average of %s",
			formatMoney(a.LatestMonth), direction, formatMoney(a.AverageMonthly)),
		Priority:        5,
		Actionable:      true,
		SuggestedAction: "Review your recent transactions and identify areas where you can cut back",
	}, true
}

func topCategoryRule(c insightContext) (domain.Insight, bool) {
	a := c.analysis
	if a.TopCategory == "" {
		return domain.Insight{}, false
	}

	amount := a.CategoryAmount(a.TopCategory)
	share := 0.0
	if a.TotalOutflow > 0 {
		share = amount / a.TotalOutflow * 100
	}

	return domain.Insight{
		Kind:     domain.InsightInfo,
		Category: "spending",
		Title:    fmt.Sprintf("Highest Spending: %s", a.TopCategory),
		Message: fmt.Sprintf("You've spent %s on %s, %s of your total spending",
			formatMoney(amount), a.TopCategory, formatPercent(share)),
		Priority:        3,
		Actionable:      true,
		SuggestedAction: fmt.Sprintf("Consider setting a monthly budget limit for %s", a.TopCategory),
	}, true
}

func balanceTierRule(c insightContext) (domain.Insight, bool) {
	avg := c.analysis.AverageMonthly
	target := avg * EmergencyFundMonths

	switch {
	case c.balance < 0:
		return domain.Insight{
			Kind:            domain.InsightWarning,
			Category:        "balance",
			Title:           "Negative Balance Alert",
			Message:         fmt.Sprintf("Your total account balance is %s. This requires immediate attention.", formatMoney(c.balance)),
			Priority:        5,
			Actionable:      true,
			SuggestedAction: "Prioritize paying off debts and avoid new expenses until balance is positive",
		}, true
	case c.balance < LowBalanceThreshold:
		return domain.Insight{
			Kind:            domain.InsightWarning,
			Category:        "emergency_fund",
			Title:           "Low Emergency Fund",
			Message:         fmt.Sprintf("Your balance of %s is critically low. An unexpected expense could cause financial stress.", formatMoney(c.balance)),
			Priority:        4,
			Actionable:      true,
			SuggestedAction: "Try to save at least $1,000 for emergencies, then work toward 3-6 months of expenses",
		}, true
	case avg > 0 && c.balance < target:
		return domain.Insight{
			Kind:     domain.InsightWarning,
			Category: "emergency_fund",
			Title:    "Build Your Emergency Fund",
			Message: fmt.Sprintf("Your balance of %s covers %.1f months of expenses. Financial experts recommend having 3-6 months saved for emergencies.",
				formatMoney(c.balance), c.balance/avg),
			Priority:        3,
			Actionable:      true,
			SuggestedAction: fmt.Sprintf("Aim to save %s for a 3-month emergency fund", formatMoney(target)),
		}, true
	default:
		message := fmt.Sprintf("Great job! Your balance of %s is a healthy emergency fund that can cover unexpected expenses.", formatMoney(c.balance))
		if avg > 0 {
			message = fmt.Sprintf("Great job! Your balance of %s covers %.1f months of expenses.", formatMoney(c.balance), c.balance/avg)
		}
		return domain.Insight{
			Kind:       domain.InsightSuccess,
			Category:   "emergency_fund",
			Title:      "Strong Emergency Fund",
			Message:    message,
			Priority:   2,
			Actionable: false,
		}, true
	}
}

// savingsGoalRule emits nothing below 50% progress.
func savingsGoalRule(c insightContext) (domain.Insight, bool) {
	goal, ok := c.snapshot.Goal()
	if !ok {
		return domain.Insight{}, false
	}
	progress := c.balance / goal * 100

	switch {
	case progress >= 100:
		return domain.Insight{
			Kind:       domain.InsightSuccess,
			Category:   "goals",
			Title:      "Savings Goal Achieved!",
			Message:    fmt.Sprintf("Congratulations! You've reached your savings goal of %s", formatMoney(goal)),
			Priority:   5,
			Actionable: false,
		}, true
	case progress >= 75:
		return domain.Insight{
			Kind:            domain.InsightSuccess,
			Category:        "goals",
			Title:           "Almost There!",
			Message:         fmt.Sprintf("You're at %s of your savings goal. Keep up the great work!", formatPercent(progress)),
			Priority:        3,
			Actionable:      true,
			SuggestedAction: fmt.Sprintf("Just %s more to reach your goal!", formatMoney(goal-c.balance)),
		}, true
	case progress >= 50:
		return domain.Insight{
			Kind:            domain.InsightInfo,
			Category:        "goals",
			Title:           "Halfway to Your Goal",
			Message:         fmt.Sprintf("You've saved %s toward your %s goal.", formatPercent(progress), formatMoney(goal)),
			Priority:        2,
			Actionable:      true,
			SuggestedAction: "Stay consistent with your savings plan to reach your goal faster",
		}, true
	}
	return domain.Insight{}, false
}

// savingsRateRule emits nothing for rates between 10% and 20%.
func savingsRateRule(c insightContext) (domain.Insight, bool) {
	a := c.analysis
	if a.TotalInflow <= 0 {
		return domain.Insight{}, false
	}
	rate := a.SavingsRate() * 100

	switch {
	case rate < 0:
		return domain.Insight{
			Kind:            domain.InsightWarning,
			Category:        "savings",
			Title:           "Spending More Than Earning",
			Message:         fmt.Sprintf("You're spending %s more than you earn.", formatMoney(a.TotalOutflow-a.TotalInflow)),
			Priority:        5,
			Actionable:      true,
			SuggestedAction: "Create a budget to reduce expenses and increase income immediately",
		}, true
	case rate < LowSavingsRatePct:
		return domain.Insight{
			Kind:            domain.InsightWarning,
			Category:        "savings",
			Title:           "Low Savings Rate",
			Message:         fmt.Sprintf("You're only saving %s of your income. This may not be enough for long-term goals.", formatPercent(rate)),
			Priority:        4,
			Actionable:      true,
			SuggestedAction: "Aim to save at least 20% of your income each month using the 50/30/20 rule",
		}, true
	case rate >= ExcellentSavingsRatePct:
		return domain.Insight{
			Kind:       domain.InsightSuccess,
			Category:   "savings",
			Title:      "Excellent Savings Rate!",
			Message:    fmt.Sprintf("You're saving %s of your income - that's fantastic!", formatPercent(rate)),
			Priority:   2,
			Actionable: false,
		}, true
	}
	return domain.Insight{}, false
}

func spendingTrendRule(c insightContext) (domain.Insight, bool) {
	a := c.analysis

	switch a.Trend {
	case domain.TrendIncreasing:
		return domain.Insight{
			Kind:     domain.InsightWarning,
			Category: "spending",
			Title:    "Rising Expenses Trend",
			Message: fmt.Sprintf("Your monthly expenses have been increasing: the latest month was %s against an average of %s.",
				formatMoney(a.LatestMonth), formatMoney(a.AverageMonthly)),
			Priority:        4,
			Actionable:      true,
			SuggestedAction: "Review your budget and identify where costs are rising. Look for subscriptions or services you can cancel.",
		}, true
	case domain.TrendDecreasing:
		return domain.Insight{
			Kind:     domain.InsightSuccess,
			Category: "spending",
			Title:    "Great Job Cutting Expenses!",
			Message: fmt.Sprintf("Your monthly expenses have been decreasing: the latest month was %s against an average of %s. Keep up the good work!",
				formatMoney(a.LatestMonth), formatMoney(a.AverageMonthly)),
			Priority:   2,
			Actionable: false,
		}, true
	}
	return domain.Insight{}, false
}

// formatMoney renders v with two decimals, e.g. "$1250.00" or "-$50.00".
func formatMoney(v float64) string {
	s := "$" + decimal.NewFromFloat(math.Abs(v)).StringFixed(2)
	if v < 0 && s != "$0.00" {
		return "-" + s
	}
	return s
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
