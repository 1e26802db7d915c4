package domain

type InsightKind string

const (
	InsightWarning InsightKind = "warning"
	InsightInfo    InsightKind = "info"
	InsightSuccess InsightKind = "success"
	InsightTip     InsightKind = "tip"
)

type Insight struct {
	Kind            InsightKind `json:"type"`
	Category        string      `json:"category"`
	Title           string      `json:"title"`
	Message         string      `json:"message"`
	Priority        int         `json:"priority"` // 1-5, 5 is the most urgent
	Actionable      bool        `json:"actionable"`
	SuggestedAction string      `json:"suggestedAction,omitempty"`
}

type Prediction struct {
	Metric         string  `json:"metric"`
	CurrentValue   float64 `json:"currentValue"`
	PredictedValue float64 `json:"predictedValue"`
	Confidence     float64 `json:"confidence"`
	Timeframe      string  `json:"timeframe"`
	Change         float64 `json:"change"`
	ChangePercent  float64 `json:"changePercent"`
}

type Summary struct {
	TotalBalance    float64 `json:"totalBalance"`
	MonthlyExpenses float64 `json:"monthlyExpenses"`
	SavingsRate     float64 `json:"savingsRate"` // percent
	TopCategory     string  `json:"topCategory,omitempty"`
	SpendingTrend   Trend   `json:"spendingTrend"`
	NetCashFlow     float64 `json:"netCashflow"`
}

type RecommendationResponse struct {
	Insights        []Insight    `json:"insights"`
	Predictions     []Prediction `json:"predictions"`
	OverallScore    int          `json:"overallScore"`
	Recommendations []string     `json:"recommendations"`
	Summary         Summary      `json:"summary"`
	LLMEnhanced     bool         `json:"llmEnhanced"`
}

type GeneratorStatus struct {
	Reachable bool   `json:"reachable"`
	URL       string `json:"url"`
	Model     string `json:"model"`
}

type CacheStatus struct {
	Backend  string `json:"backend"`
	Entries  int    `json:"entries"`
	Capacity int    `json:"capacity"`
}

type EnhancementStatus struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

type HealthStatus struct {
	Status      string            `json:"status"`
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	Generator   GeneratorStatus   `json:"generator"`
	Cache       CacheStatus       `json:"cache"`
	Enhancement EnhancementStatus `json:"enhancement"`
}
