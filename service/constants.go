package service

const (
	// Health score
	BaseScore             = 40.0
	MaxSavingsRateBonus   = 25.0
	SavingsRateWeight     = 0.25
	PositiveBalanceBonus  = 10.0
	FullEmergencyFund     = 15.0
	PartialEmergencyFund  = 8.0
	DecreasingTrendBonus  = 10.0
	StableTrendBonus      = 5.0
	EmergencyFundMonths   = 3.0
	LowBalanceThreshold   = 500.0 // below this the emergency fund is critically low
	MaxRecommendations    = 6
	TopInsightsForActions = 3

	// Spending analysis
	TrendMinMonths   = 3
	AnomalyMinMonths = 2
	TrendUpperRatio  = 1.1
	TrendLowerRatio  = 0.9

	// Savings tiers (percent)
	LowSavingsRatePct       = 10.0
	ExcellentSavingsRatePct = 20.0

	// Predictor
	SpikeRatio                = 1.2
	DipRatio                  = 0.8
	SpikeReversion            = 1.1
	DipReversion              = 0.9
	ConfidentHistoryMonths    = 3
	HighConfidence            = 0.75
	LowConfidence             = 0.5
	DerivedConfidenceDiscount = 0.85

	MaxTransactionsPerRequest = 50_000
	MaxAccountsPerRequest     = 100
)
