package config

import (
	"testing"

	"github.com/bwise1/travelog/internal/grouping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GROUPING_MAX_HOURS_DIFF", "6")
	t.Setenv("GROUPING_MAX_KM_DIFF", "-3")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, grouping.Thresholds{MaxHoursDiff: 6, MaxKmDiff: grouping.DefaultMaxKmDiff}, cfg.Thresholds())
}

func TestNewRejectsMalformedValues(t *testing.T) {
	for name, value := range map[string]string{
		"PORT":                    "eighty",
		"GROUPING_MAX_HOURS_DIFF": "two hours",
		"CAPTION_PARALLELISM":     "4.5",
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)

			cfg, err := New()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
