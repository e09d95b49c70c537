package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	require.NoError(t, err)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
active_region: 원주
fuzzy_threshold: 0.2
lookback_months: 3
news_window_days: 3
fetch_timeout: 10s
regions:
  - name: 원주
    lawd_code: "42130"
    districts: [단계동, 무실동]
    seed_watchlist:
      - district: 무실동
        asset_name: 원주더샵
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "원주", cfg.ActiveRegion)
	assert.InDelta(t, 0.2, cfg.FuzzyThreshold, 1e-9)
	assert.Equal(t, 3, cfg.LookbackMonths)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout.Std(), "durations use ParseDuration syntax")
	assert.Equal(t, time.Hour, cfg.DealsCacheTTL.Std(), "unset values keep their defaults")

	region := cfg.Active()
	assert.Equal(t, "42130", region.LawdCode)
	require.Len(t, region.SeedWatchlist, 1)
	assert.Equal(t, "원주더샵", region.SeedWatchlist[0].AssetName)
}

func TestLoad_RejectsMalformedDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fetch_timeout: quickly\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("MOLIT_SERVICE_KEY", "env-key")
	t.Setenv("LOOKBACK_MONTHS", "12")
	t.Setenv("NEWS_SITES", "kado.net,kwnews.co.kr")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.ServiceKey)
	assert.True(t, cfg.KeyConfigured())
	assert.Equal(t, 12, cfg.LookbackMonths)
	assert.Equal(t, []string{"kado.net", "kwnews.co.kr"}, cfg.NewsSites)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no regions", func(c *Config) { c.Regions = nil }},
		{"unknown active region", func(c *Config) { c.ActiveRegion = "서울" }},
		{"threshold too low", func(c *Config) { c.FuzzyThreshold = 0 }},
		{"threshold too high", func(c *Config) { c.FuzzyThreshold = 1 }},
		{"zero lookback", func(c *Config) { c.LookbackMonths = 0 }},
		{"zero parallelism", func(c *Config) { c.FetchParallelism = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestRegionLookup(t *testing.T) {
	cfg := Default()

	region, ok := cfg.Region("춘천")
	require.True(t, ok)
	assert.Equal(t, "42110", region.LawdCode)

	_, ok = cfg.Region("서울")
	assert.False(t, ok)
}
