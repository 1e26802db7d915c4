package service

import (
	"math"

	"finance-advisor/domain"
)

// Predictor projects next month's figures with a trend-following heuristic.
// It is not a fitted model and makes no accuracy claim.
type Predictor struct{}

func NewPredictor() *Predictor {
	return &Predictor{}
}

type projection struct {
	expenses   float64
	income     float64
	confidence float64
}

// project applies mean reversion after a spike or dip in the latest month and
// assumes income stays unchanged.
func (p *Predictor) project(analysis domain.SpendingAnalysis, income float64) projection {
	avg := analysis.AverageMonthly
	latest := analysis.LatestMonth

	expenses := avg
	switch {
	case latest > avg*SpikeRatio:
		expenses = avg * SpikeReversion
	case latest < avg*DipRatio:
		expenses = avg * DipReversion
	}

	confidence := LowConfidence
	if analysis.MonthCount >= ConfidentHistoryMonths {
		confidence = HighConfidence
	}

	return projection{
		expenses:   math.Max(0, expenses),
		income:     math.Max(0, income),
		confidence: confidence,
	}
}

// Predict returns the expense and end-of-month balance predictions, plus an
// income prediction when the snapshot declares a monthly income. Without a
// declared income the average monthly inflow is used for the balance.
func (p *Predictor) Predict(
	snapshot domain.UserFinancialSnapshot,
	analysis domain.SpendingAnalysis,
) []domain.Prediction {
	declared, hasIncome := snapshot.DeclaredIncome()
	income := declared
	if !hasIncome {
		income = analysis.TotalInflow / float64(max(analysis.MonthCount, 1))
	}

	proj := p.project(analysis, income)
	predictions := make([]domain.Prediction, 0, 3)

	predictions = append(predictions, newPrediction(
		"Next Month Expenses", "next_month",
		analysis.LatestMonth, proj.expenses, proj.confidence,
	))

	if hasIncome {
		predictions = append(predictions, newPrediction(
			"Next Month Income", "next_month",
			declared, proj.income, proj.confidence,
		))
	}

	balance := snapshot.TotalBalance().InexactFloat64()
	predictions = append(predictions, newPrediction(
		"End of Month Balance", "end_of_month",
		balance, balance+proj.income-proj.expenses, proj.confidence*DerivedConfidenceDiscount,
	))

	return predictions
}

// newPrediction derives the change fields. The percentage is only computed
// against a positive current value.
func newPrediction(metric, timeframe string, current, predicted, confidence float64) domain.Prediction {
	change := predicted - current
	changePct := 0.0
	if current > 0 {
		changePct = change / current * 100
	}
	return domain.Prediction{
		Metric:         metric,
		CurrentValue:   roundTo2Decimals(current),
		PredictedValue: roundTo2Decimals(predicted),
		Confidence:     roundTo4Decimals(confidence),
		Timeframe:      timeframe,
		Change:         roundTo2Decimals(change),
		ChangePercent:  roundTo2Decimals(changePct),
	}
}
