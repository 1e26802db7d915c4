package service

import (
	"math"

	"finance-advisor/domain"
)

// HealthScorer maps an analysis and the account balances to a 0-100 score.
type HealthScorer struct{}

func NewHealthScorer() *HealthScorer {
	return &HealthScorer{}
}

// Score adds capped contributions to a base of 40. The float sum is truncated
// toward zero and then clamped to [0, 100].
func (s *HealthScorer) Score(totalBalance float64, analysis domain.SpendingAnalysis) int {
	score := BaseScore

	if analysis.TotalInflow > 0 {
		score += math.Min(MaxSavingsRateBonus, analysis.SavingsRate()*100*SavingsRateWeight)
	}

	if totalBalance > 0 {
		score += PositiveBalanceBonus
	}

	avg := analysis.AverageMonthly
	if avg > 0 {
		switch {
		case totalBalance >= avg*EmergencyFundMonths:
			score += FullEmergencyFund
		case totalBalance >= avg:
			score += PartialEmergencyFund
		}
	}

	switch analysis.Trend {
	case domain.TrendDecreasing:
		score += DecreasingTrendBonus
	case domain.TrendStable:
		score += StableTrendBonus
	}

	truncated := math.Trunc(score)
	if math.IsNaN(truncated) || truncated < 0 {
		return 0
	}
	if truncated > 100 {
		return 100
	}
	return int(truncated)
}
