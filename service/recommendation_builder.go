package service

import "finance-advisor/domain"

var scoreBuckets = []struct {
	below int
	recs  [2]string
}{
	{40, [2]string{
		"Focus on financial basics: track all expenses, create a budget, and eliminate unnecessary spending",
		"Consider ways to increase income through side gigs, asking for a raise, or freelancing",
	}},
	{60, [2]string{
		"You're making progress! Focus on building an emergency fund of 3-6 months expenses",
		"Review your budget monthly and look for opportunities to save 20% of your income",
	}},
	{80, [2]string{
		"You're doing well! Consider investing surplus funds in retirement accounts or index funds",
		"Explore tax-advantaged savings options to maximize your financial growth",
	}},
}

var excellentRecs = [2]string{
	"Excellent financial health! Consider meeting with a financial advisor to optimize investments",
	"Set ambitious long-term goals like early retirement or major purchases",
}

const risingExpensesRec = "Your expenses are rising. Review subscriptions, dining out, and impulse purchases"

// RecommendationBuilder turns the score, the leading insights and the trend
// into at most MaxRecommendations strings.
type RecommendationBuilder struct{}

func NewRecommendationBuilder() *RecommendationBuilder {
	return &RecommendationBuilder{}
}

// Build expects insights already sorted by priority. Entries past the limit
// are dropped in order.
func (b *RecommendationBuilder) Build(score int, insights []domain.Insight, trend domain.Trend) []string {
	base := excellentRecs
	for _, bucket := range scoreBuckets {
		if score < bucket.below {
			base = bucket.recs
			break
		}
	}

	recs := []string{base[0], base[1]}
	seen := map[string]bool{base[0]: true, base[1]: true}

	add := func(rec string) {
		if rec == "" || seen[rec] {
			return
		}
		seen[rec] = true
		recs = append(recs, rec)
	}

	for i := 0; i < len(insights) && i < TopInsightsForActions; i++ {
		add(insights[i].SuggestedAction)
	}

	if trend == domain.TrendIncreasing {
		add(risingExpensesRec)
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}
