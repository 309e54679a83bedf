package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"exact", Exact},
		{"EXACT", Exact},
		{"fuzzy", Fuzzy},
		{" simhash ", Fuzzy},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseStrategy("minhash")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_String(t *testing.T) {
	assert.Equal(t, "simhash(t=3)", DefaultConfig().String())
	assert.Equal(t, "exact", ExactConfig().String())
	assert.Equal(t, "Strategy(7)", Strategy(7).String())
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, Config{Strategy: Fuzzy, Threshold: 64, ShingleWidth: 1}.Validate())
	require.NoError(t, Config{Strategy: Fuzzy, Threshold: 0, ShingleWidth: 1}.Validate())

	err := Config{Strategy: Fuzzy, Threshold: 65, ShingleWidth: 4}.Validate()
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "threshold", ce.Field)
	assert.Equal(t, 65, ce.Value)
	assert.Contains(t, err.Error(), "0..64")
}

func TestSummary_String(t *testing.T) {
	s := Summary{
		TotalLines:     1000,
		UniqueCount:    900,
		DuplicateCount: 100,
		Strategy:       "simhash(t=3)",
		TotalDuration:  12 * time.Millisecond,
	}
	assert.Equal(t, "1,000 total | 900 unique | 100 duplicates (10.0%) | 12ms | strategy: simhash(t=3)", s.String())
	assert.InDelta(t, 0.1, s.DedupRatio(), 1e-9)
}
