package services

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	DecomposerSingle = "single"
	DecomposerRatio  = "ratio"
)

// Decomposer splits a cost variance into named components that sum exactly
// to the variance.
type Decomposer interface {
	Name() string
	Decompose(variance decimal.Decimal) ([]domain.VarianceComponent, error)
}

// SingleDecomposer books the whole variance as one component.
type SingleDecomposer struct{}

func (SingleDecomposer) Name() string { return DecomposerSingle }

func (SingleDecomposer) Decompose(variance decimal.Decimal) ([]domain.VarianceComponent, error) {
	return []domain.VarianceComponent{{Name: "total", Amount: variance}}, nil
}

// RatioShare is one configured share of a RatioDecomposer.
type RatioShare struct {
	Name  string
	Ratio decimal.Decimal
}

// RatioDecomposer splits the variance by fixed ratios. The last share takes
// whatever rounding left over.
type RatioDecomposer struct {
	shares []RatioShare
}

// NewRatioDecomposer checks that ratios are positive, uniquely named and sum to 1.
func NewRatioDecomposer(shares []RatioShare) (*RatioDecomposer, error) {
	if len(shares) == 0 {
		return nil, apperrors.NewConfigurationError("VARIANCE_RATIOS", "at least one ratio is required")
	}
	seen := make(map[string]bool, len(shares))
	sum := decimal.Zero
	for _, s := range shares {
		if s.Name == "" {
			return nil, apperrors.NewConfigurationError("VARIANCE_RATIOS", "ratio name is empty")
		}
		if seen[s.Name] {
			return nil, apperrors.NewConfigurationError("VARIANCE_RATIOS", fmt.Sprintf("duplicate ratio %q", s.Name))
		}
		if !s.Ratio.IsPositive() {
			return nil, apperrors.NewConfigurationError("VARIANCE_RATIOS", fmt.Sprintf("ratio %q must be positive", s.Name))
		}
		seen[s.Name] = true
		sum = sum.Add(s.Ratio)
	}
	if !sum.Equal(decimal.NewFromInt(1)) {
		return nil, apperrors.NewConfigurationError("VARIANCE_RATIOS", fmt.Sprintf("ratios sum to %s, want 1", sum))
	}
	return &RatioDecomposer{shares: shares}, nil
}

// ParseRatioShares reads "name:0.5,other:0.5".
func ParseRatioShares(raw string) ([]RatioShare, error) {
	var shares []RatioShare
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			return nil, apperrors.NewConfigurationError("VARIANCE_RATIOS", fmt.Sprintf("malformed ratio %q", part))
		}
		ratio, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, apperrors.NewConfigurationError("VARIANCE_RATIOS", fmt.Sprintf("ratio %q is not a number", part))
		}
		shares = append(shares, RatioShare{Name: strings.TrimSpace(name), Ratio: ratio})
	}
	return shares, nil
}

func (d *RatioDecomposer) Name() string { return DecomposerRatio }

func (d *RatioDecomposer) Decompose(variance decimal.Decimal) ([]domain.VarianceComponent, error) {
	out := make([]domain.VarianceComponent, len(d.shares))
	remaining := variance
	for i, s := range d.shares {
		amount := remaining
		if i < len(d.shares)-1 {
			amount = variance.Mul(s.Ratio).Round(domain.BaseAmountScale)
			remaining = remaining.Sub(amount)
		}
		out[i] = domain.VarianceComponent{Name: s.Name, Amount: amount}
	}
	return out, nil
}

// NewDecomposer builds a decomposer by name. An empty name selects single.
func NewDecomposer(name, ratios string) (Decomposer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DecomposerSingle:
		return SingleDecomposer{}, nil
	case DecomposerRatio:
		shares, err := ParseRatioShares(ratios)
		if err != nil {
			return nil, err
		}
		d, err := NewRatioDecomposer(shares)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, apperrors.NewConfigurationError("VARIANCE_DECOMPOSER", fmt.Sprintf("unknown decomposer %q", name))
	}
}
