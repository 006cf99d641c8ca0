package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"oilrisk/internal/risk"
	api "oilrisk/pkg/contracts/api/v1"
	"oilrisk/pkg/contracts/domain"
)

// Weight bounds
const (
	MinWeight = 0.0
	MaxWeight = 2.0
)

// Weights scales the radar contribution of each factor category
type Weights struct {
	SupplyDemand float64
	Macro        float64
	Financial    float64
	Geopolitical float64
	Sentiment    float64
}

// DefaultWeights weighs every category equally
func DefaultWeights() Weights {
	return Weights{SupplyDemand: 1, Macro: 1, Financial: 1, Geopolitical: 1, Sentiment: 1}
}

// WeightsFromRequest maps the request DTO onto Weights
func WeightsFromRequest(req api.WeightsRequest) Weights {
	return Weights{
		SupplyDemand: req.SupplyDemand,
		Macro:        req.Macro,
		Financial:    req.Financial,
		Geopolitical: req.Geopolitical,
		Sentiment:    req.Sentiment,
	}
}

// For returns the weight of a category; unknown categories weigh 1
func (w Weights) For(c domain.FactorCategory) float64 {
	switch c {
	case domain.CategorySupplyDemand:
		return w.SupplyDemand
	case domain.CategoryMacro:
		return w.Macro
	case domain.CategoryFinancial:
		return w.Financial
	case domain.CategoryGeopolitical:
		return w.Geopolitical
	case domain.CategorySentiment:
		return w.Sentiment
	}
	return 1
}

// Validate checks every weight lies in [MinWeight, MaxWeight]
func (w Weights) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"supplyDemand", w.SupplyDemand},
		{"macro", w.Macro},
		{"financial", w.Financial},
		{"geopolitical", w.Geopolitical},
		{"sentiment", w.Sentiment},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || c.value < MinWeight || c.value > MaxWeight {
			return newError(ErrInvalidWeights,
				fmt.Sprintf("%s weight must be between %g and %g", c.name, MinWeight, MaxWeight))
		}
	}
	return nil
}

// FactorService answers factor attribution queries and holds the category
// weights
type FactorService struct {
	data   *Dataset
	logger *slog.Logger

	mu      sync.RWMutex
	weights Weights
}

// NewFactorService creates a factor service with default weights
func NewFactorService(data *Dataset, logger *slog.Logger) *FactorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FactorService{
		data:    data,
		logger:  logger.With(slog.String("service", "factor")),
		weights: DefaultWeights(),
	}
}

// Weights returns the current category weights
func (s *FactorService) Weights() Weights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights
}

// Radar scores each category of the month on date. A zero date selects the
// latest month with factor data.
func (s *FactorService) Radar(ctx context.Context, date time.Time) ([]api.RadarScore, error) {
	if date.IsZero() {
		latest, ok := s.data.LatestFactorDate()
		if !ok {
			return nil, newError(ErrNoRiskData, "No factor data available")
		}
		date = latest
	}
	factors := s.data.Factors(date)
	if len(factors) == 0 {
		return nil, newError(ErrNoRiskData, "No factor data for date: "+dateKey(date))
	}
	return radarScores(factors, s.Weights()), nil
}

func radarScores(factors []domain.RiskFactorRow, weights Weights) []api.RadarScore {
	grouped := make(map[domain.FactorCategory][]domain.RiskFactorRow)
	for _, f := range factors {
		grouped[f.Category] = append(grouped[f.Category], f)
	}

	raw := make([]float64, len(domain.CategoryOrder))
	maxRaw := 0.0
	for i, c := range domain.CategoryOrder {
		rows := grouped[c]
		if len(rows) == 0 {
			continue
		}
		sum := 0.0
		for _, f := range rows {
			sum += math.Abs(f.Attribution)
		}
		raw[i] = sum / float64(len(rows)) * weights.For(c)
		maxRaw = max(maxRaw, raw[i])
	}
	if maxRaw == 0 {
		maxRaw = 1
	}

	out := make([]api.RadarScore, len(domain.CategoryOrder))
	for i, c := range domain.CategoryOrder {
		out[i] = api.RadarScore{
			Category:   string(c),
			CategoryZh: c.LocalizedName(),
			Score:      fixed(raw[i]/maxRaw*100, radarScale),
			TopFactors: topFactors(grouped[c], topRadarN),
		}
	}
	return out
}

// Explain returns every factor of the month on date
func (s *FactorService) Explain(ctx context.Context, date time.Time) ([]api.Factor, error) {
	return toFactors(s.data.Factors(date)), nil
}

// UpdateWeights replaces the category weights and re-scores the latest month.
// The adjusted index scales the stored index by the ratio of weighted to
// unweighted |attribution| sums.
func (s *FactorService) UpdateWeights(ctx context.Context, weights Weights) (*api.WeightUpdateResult, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.weights = weights
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "category weights updated",
		slog.Float64("supply_demand", weights.SupplyDemand),
		slog.Float64("macro", weights.Macro),
		slog.Float64("financial", weights.Financial),
		slog.Float64("geopolitical", weights.Geopolitical),
		slog.Float64("sentiment", weights.Sentiment))

	latest, ok := s.data.Latest()
	if !ok {
		return nil, newError(ErrNoRiskData, "No risk data available")
	}
	factors := s.data.Factors(latest.Date)

	var weighted, unweighted float64
	for _, f := range factors {
		a := math.Abs(f.Attribution)
		weighted += a * weights.For(f.Category)
		unweighted += a
	}
	ratio := 1.0
	if unweighted != 0 {
		ratio = weighted / unweighted
	}
	adjusted := fixed(math.Max(0, math.Min(100, latest.RiskIndex*ratio)), indexScale)

	radar := []api.RadarScore{}
	if len(factors) > 0 {
		radar = radarScores(factors, weights)
	}
	return &api.WeightUpdateResult{
		RiskIndex:   adjusted,
		RiskLevel:   string(risk.Classify(adjusted.InexactFloat64())),
		RadarScores: radar,
		TopFactors:  topFactors(factors, topFactorsN),
	}, nil
}
