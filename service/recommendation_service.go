package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pkg/errors"

	"finance-advisor/config"
	"finance-advisor/domain"
	"finance-advisor/repository"
)

const (
	ServiceName    = "ai-recommender"
	ServiceVersion = "1.0.0"

	uncategorized = "Uncategorized"
)

var (
	// ErrInvalidSnapshot wraps every input validation failure.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrPipelineFailure is returned when the deterministic pipeline faults.
	ErrPipelineFailure = errors.New("recommendation pipeline failed")
)

// RecommendationService runs the analysis pipeline for one snapshot and
// optionally hands the result to the LLMEnhancer.
type RecommendationService struct {
	analyzer  *SpendingAnalyzer
	scorer    *HealthScorer
	insights  *InsightEngine
	predictor *Predictor
	builder   *RecommendationBuilder

	generator TextGenerator
	enhancer  *LLMEnhancer // nil when enhancement is disabled
	cache     repository.CacheRepository
	cfg       *config.Config
}

// NewRecommendationService wires the pipeline. generator may be nil, which
// disables enhancement.
func NewRecommendationService(
	cfg *config.Config,
	generator TextGenerator,
	cache repository.CacheRepository,
) *RecommendationService {
	if cache == nil {
		cache = repository.NoopCache{}
	}

	s := &RecommendationService{
		analyzer:  NewSpendingAnalyzer(),
		scorer:    NewHealthScorer(),
		insights:  NewInsightEngine(),
		predictor: NewPredictor(),
		builder:   NewRecommendationBuilder(),
		generator: generator,
		cache:     cache,
		cfg:       cfg,
	}
	if generator != nil && cfg.EnhanceEnabled && cfg.EnhanceCount > 0 {
		s.enhancer = NewLLMEnhancer(generator, cache, cfg)
	}
	return s
}

// Recommend validates snapshot, computes the deterministic response and then
// applies best-effort enhancement. The only errors are ErrInvalidSnapshot and
// ErrPipelineFailure.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	snapshot domain.UserFinancialSnapshot,
) (domain.RecommendationResponse, error) {
	snapshot, err := normalizeSnapshot(snapshot)
	if err != nil {
		return domain.RecommendationResponse{}, err
	}

	resp, ec, err := s.compute(snapshot)
	if err != nil {
		log.Printf("[%s] Error computing recommendations for user %s: %v", RequestID(ctx), snapshot.UserID, err)
		return domain.RecommendationResponse{}, err
	}

	if s.enhancer != nil {
		resp.Insights, resp.Recommendations, resp.LLMEnhanced = s.enhancer.Enhance(ctx, resp.Insights, resp.Recommendations, ec)
	}
	return resp, nil
}

// compute is the pure part of the pipeline. A panic is reported as
// ErrPipelineFailure and no partial response is returned.
func (s *RecommendationService) compute(
	snapshot domain.UserFinancialSnapshot,
) (resp domain.RecommendationResponse, ec EnhancementContext, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, ec = domain.RecommendationResponse{}, EnhancementContext{}
			err = errors.Wrap(ErrPipelineFailure, fmt.Sprint(r))
		}
	}()

	analysis := s.analyzer.Analyze(snapshot.Transactions)
	balance := snapshot.TotalBalance().InexactFloat64()

	insights := s.insights.Generate(snapshot, analysis)
	score := s.scorer.Score(balance, analysis)
	predictions := s.predictor.Predict(snapshot, analysis)
	recs := s.builder.Build(score, insights, analysis.Trend)

	summary := domain.Summary{
		TotalBalance:    roundTo2Decimals(balance),
		MonthlyExpenses: roundTo2Decimals(analysis.AverageMonthly),
		SavingsRate:     roundTo2Decimals(analysis.SavingsRate() * 100),
		TopCategory:     analysis.TopCategory,
		SpendingTrend:   analysis.Trend,
		NetCashFlow:     roundTo2Decimals(analysis.NetCashFlow),
	}

	resp = domain.RecommendationResponse{
		Insights:        insights,
		Predictions:     predictions,
		OverallScore:    score,
		Recommendations: recs,
		Summary:         summary,
	}
	ec = EnhancementContext{
		Score:           score,
		TotalBalance:    balance,
		MonthlyExpenses: analysis.AverageMonthly,
		SavingsRate:     summary.SavingsRate,
	}
	return resp, ec, nil
}

// Health reports service status, generator reachability and cache occupancy.
func (s *RecommendationService) Health(ctx context.Context) domain.HealthStatus {
	reachable := false
	if s.generator != nil {
		reachable = s.generator.Ping(ctx)
	}

	count := 0
	if s.enhancer != nil {
		count = s.enhancer.Count()
	}

	return domain.HealthStatus{
		Status:  "healthy",
		Service: ServiceName,
		Version: ServiceVersion,
		Generator: domain.GeneratorStatus{
			Reachable: reachable,
			URL:       s.cfg.GeneratorURL,
			Model:     s.cfg.GeneratorModel,
		},
		Cache: domain.CacheStatus{
			Backend:  s.cfg.CacheBackend,
			Entries:  s.cache.Len(),
			Capacity: s.cfg.CacheCapacity,
		},
		Enhancement: domain.EnhancementStatus{
			Enabled: s.enhancer != nil,
			Count:   count,
		},
	}
}

// normalizeSnapshot validates the snapshot and returns a copy with nil lists
// replaced and blank categories labelled.
func normalizeSnapshot(snapshot domain.UserFinancialSnapshot) (domain.UserFinancialSnapshot, error) {
	if strings.TrimSpace(snapshot.UserID) == "" {
		return snapshot, errors.Wrap(ErrInvalidSnapshot, "userId is required")
	}
	if len(snapshot.Accounts) > MaxAccountsPerRequest {
		return snapshot, errors.Wrapf(ErrInvalidSnapshot, "too many accounts (max %d)", MaxAccountsPerRequest)
	}
	if len(snapshot.Transactions) > MaxTransactionsPerRequest {
		return snapshot, errors.Wrapf(ErrInvalidSnapshot, "too many transactions (max %d)", MaxTransactionsPerRequest)
	}

	accounts := make([]domain.Account, len(snapshot.Accounts))
	copy(accounts, snapshot.Accounts)

	transactions := make([]domain.Transaction, len(snapshot.Transactions))
	for i, tx := range snapshot.Transactions {
		if !tx.Direction.Valid() {
			return snapshot, errors.Wrapf(ErrInvalidSnapshot, "transaction %q: type must be \"in\" or \"out\"", tx.ID)
		}
		if tx.Amount.IsNegative() {
			return snapshot, errors.Wrapf(ErrInvalidSnapshot, "transaction %q: amount must not be negative", tx.ID)
		}
		if tx.Date.IsZero() {
			return snapshot, errors.Wrapf(ErrInvalidSnapshot, "transaction %q: date is required", tx.ID)
		}
		tx.Category = strings.TrimSpace(tx.Category)
		if tx.Category == "" {
			tx.Category = uncategorized
		}
		transactions[i] = tx
	}

	snapshot.Accounts = accounts
	snapshot.Transactions = transactions
	return snapshot, nil
}
