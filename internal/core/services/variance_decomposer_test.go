package services

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRatioShares(t *testing.T) {
	shares, err := ParseRatioShares(" price:0.25 , usage:0.75,")
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, "price", shares[0].Name)
	assert.True(t, shares[0].Ratio.Equal(decimal.RequireFromString("0.25")))
	assert.Equal(t, "usage", shares[1].Name)

	_, err = ParseRatioShares("price=0.5")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = ParseRatioShares("price:half")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestNewRatioDecomposerRejectsBadShares(t *testing.T) {
	half := decimal.RequireFromString("0.5")
	tests := []struct {
		name   string
		shares []RatioShare
	}{
		{"empty", nil},
		{"unnamed", []RatioShare{{Name: "", Ratio: decimal.NewFromInt(1)}}},
		{"duplicate", []RatioShare{{Name: "a", Ratio: half}, {Name: "a", Ratio: half}}},
		{"non-positive", []RatioShare{{Name: "a", Ratio: decimal.NewFromInt(1)}, {Name: "b", Ratio: decimal.Zero}}},
		{"sum not one", []RatioShare{{Name: "a", Ratio: half}, {Name: "b", Ratio: decimal.RequireFromString("0.4")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRatioDecomposer(tt.shares)
			assert.ErrorIs(t, err, apperrors.ErrConfiguration)
		})
	}
}

func TestRatioDecomposerRemainderGoesToLastShare(t *testing.T) {
	third := decimal.RequireFromString("0.33333333")
	d, err := NewRatioDecomposer([]RatioShare{
		{Name: "a", Ratio: third},
		{Name: "b", Ratio: third},
		{Name: "c", Ratio: decimal.RequireFromString("0.33333334")},
	})
	require.NoError(t, err)

	variance := decimal.NewFromInt(1)
	components, err := d.Decompose(variance)
	require.NoError(t, err)
	require.Len(t, components, 3)

	sum := decimal.Zero
	for _, c := range components {
		sum = sum.Add(c.Amount)
	}
	assert.True(t, sum.Equal(variance), "components sum to %s", sum)
	assert.True(t, components[0].Amount.Equal(third))
}

func TestNewDecomposer(t *testing.T) {
	d, err := NewDecomposer("", "")
	require.NoError(t, err)
	assert.Equal(t, DecomposerSingle, d.Name())

	components, err := d.Decompose(decimal.NewFromInt(-7))
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.True(t, components[0].Amount.Equal(decimal.NewFromInt(-7)))

	d, err = NewDecomposer("RATIO", "x:1")
	require.NoError(t, err)
	assert.Equal(t, DecomposerRatio, d.Name())

	_, err = NewDecomposer("ratio", "x:0.5")
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = NewDecomposer("fifo", "")
	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "VARIANCE_DECOMPOSER", cfgErr.Mapping)
}
