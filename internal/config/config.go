// Package config holds the application configuration: monitored regions and
// their districts as data, external service credentials, and the tuning knobs
// for fetching, caching and matching. Regions are configuration, not code
// paths; adding a region means adding a YAML block.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "estate-watch/internal/pkg/config"
)

// Duration is a time.Duration that decodes from YAML scalars in
// time.ParseDuration syntax ("5s", "1h30m"), the same syntax the environment
// overrides accept.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// SeedEntry is one default watchlist row written on first run.
type SeedEntry struct {
	District  string `yaml:"district"`
	AssetName string `yaml:"asset_name"`
}

// Region describes one monitored administrative region.
type Region struct {
	// Name is the human-readable region name used in search queries
	// (e.g. "춘천").
	Name string `yaml:"name"`
	// LawdCode is the 5-digit administrative code passed to the
	// transaction endpoint (e.g. "42110").
	LawdCode string `yaml:"lawd_code"`
	// Districts lists the selectable administrative sub-units.
	Districts []string `yaml:"districts"`
	// SeedWatchlist seeds the watchlist file when it does not exist yet.
	SeedWatchlist []SeedEntry `yaml:"seed_watchlist"`
}

// Config is the resolved application configuration.
type Config struct {
	// ServiceKey is the public-data portal credential. When empty, all
	// transaction operations short-circuit to a key-required state.
	ServiceKey string `yaml:"-"`

	// NaverClientID and NaverClientSecret enable the keyed news search
	// backend. When empty the RSS backend is used alone.
	NaverClientID     string `yaml:"-"`
	NaverClientSecret string `yaml:"-"`

	Regions      []Region `yaml:"regions"`
	ActiveRegion string   `yaml:"active_region"`

	// FuzzyThreshold is the acceptance threshold for fuzzy name
	// resolution. Deployments have historically run 0.2 and 0.3.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`

	LookbackMonths   int      `yaml:"lookback_months"`
	FetchTimeout     Duration `yaml:"fetch_timeout"`
	FetchParallelism int      `yaml:"fetch_parallelism"`
	DealsCacheTTL    Duration `yaml:"deals_cache_ttl"`
	NewsCacheTTL     Duration `yaml:"news_cache_ttl"`

	NewsWindowDays int `yaml:"news_window_days"`
	// NewsMaxItems bounds unfiltered aggregation; NewsMaxItemsFiltered
	// applies when a per-publisher domain filter is active.
	NewsMaxItems         int      `yaml:"news_max_items"`
	NewsMaxItemsFiltered int      `yaml:"news_max_items_filtered"`
	NewsSites            []string `yaml:"news_sites"`

	WatchlistPath string `yaml:"watchlist_path"`
	HTTPAddr      string `yaml:"http_addr"`
}

// Default returns the built-in single-region configuration.
func Default() *Config {
	return &Config{
		Regions: []Region{
			{
				Name:     "춘천",
				LawdCode: "42110",
				Districts: []string{
					"근화동", "동면", "사농동", "석사동", "소양로", "신북읍",
					"약사명동", "온의동", "우두동", "칠전동", "퇴계동", "효자동", "후평동",
				},
				SeedWatchlist: []SeedEntry{
					{District: "퇴계동", AssetName: "e편한세상춘천한숲시티"},
					{District: "온의동", AssetName: "춘천센트럴타워푸르지오"},
				},
			},
		},
		ActiveRegion:   "춘천",
		FuzzyThreshold: 0.3,
		LookbackMonths: 6,
		FetchTimeout:   Duration(5 * time.Second),
		// Months carry no ordering dependency, so fetch them concurrently.
		FetchParallelism:     3,
		DealsCacheTTL:        Duration(time.Hour),
		NewsCacheTTL:         Duration(60 * time.Second),
		NewsWindowDays:       7,
		NewsMaxItems:         50,
		NewsMaxItemsFiltered: 20,
		NewsSites: []string{
			"kado.net", "kwnews.co.kr", "ccpost.co.kr", "gwnews.org", "chunsa.kr",
		},
		WatchlistPath: "watchlist.csv",
		HTTPAddr:      ":8080",
	}
}

// Load builds the configuration from the optional YAML file at path, then
// applies environment overrides. A missing file is not an error; the built-in
// defaults are used. Credentials come from the environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to defaults.
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.ServiceKey = pkgconfig.GetEnvString("MOLIT_SERVICE_KEY", cfg.ServiceKey)
	cfg.NaverClientID = pkgconfig.GetEnvString("NAVER_CLIENT_ID", cfg.NaverClientID)
	cfg.NaverClientSecret = pkgconfig.GetEnvString("NAVER_CLIENT_SECRET", cfg.NaverClientSecret)
	cfg.ActiveRegion = pkgconfig.GetEnvString("ACTIVE_REGION", cfg.ActiveRegion)
	cfg.FuzzyThreshold = pkgconfig.GetEnvFloat("FUZZY_THRESHOLD", cfg.FuzzyThreshold)
	cfg.LookbackMonths = pkgconfig.GetEnvInt("LOOKBACK_MONTHS", cfg.LookbackMonths)
	cfg.FetchTimeout = Duration(pkgconfig.GetEnvDuration("FETCH_TIMEOUT", cfg.FetchTimeout.Std()))
	cfg.FetchParallelism = pkgconfig.GetEnvInt("FETCH_PARALLELISM", cfg.FetchParallelism)
	cfg.DealsCacheTTL = Duration(pkgconfig.GetEnvDuration("DEALS_CACHE_TTL", cfg.DealsCacheTTL.Std()))
	cfg.NewsCacheTTL = Duration(pkgconfig.GetEnvDuration("NEWS_CACHE_TTL", cfg.NewsCacheTTL.Std()))
	cfg.NewsSites = pkgconfig.GetEnvStringList("NEWS_SITES", cfg.NewsSites)
	cfg.WatchlistPath = pkgconfig.GetEnvString("WATCHLIST_PATH", cfg.WatchlistPath)
	cfg.HTTPAddr = pkgconfig.GetEnvString("HTTP_ADDR", cfg.HTTPAddr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("at least one region is required")
	}
	if _, ok := c.Region(c.ActiveRegion); !ok {
		return fmt.Errorf("active region %q is not configured", c.ActiveRegion)
	}
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold >= 1 {
		return fmt.Errorf("fuzzy threshold must be in (0, 1), got %v", c.FuzzyThreshold)
	}
	if c.LookbackMonths <= 0 {
		return fmt.Errorf("lookback months must be positive, got %d", c.LookbackMonths)
	}
	if c.FetchParallelism <= 0 {
		return fmt.Errorf("fetch parallelism must be positive, got %d", c.FetchParallelism)
	}
	return nil
}

// Region returns the region configuration by name.
func (c *Config) Region(name string) (*Region, bool) {
	for i := range c.Regions {
		if c.Regions[i].Name == name {
			return &c.Regions[i], true
		}
	}
	return nil, false
}

// Active returns the active region's configuration.
func (c *Config) Active() *Region {
	r, ok := c.Region(c.ActiveRegion)
	if !ok {
		return &c.Regions[0]
	}
	return r
}

// KeyConfigured reports whether the transaction service key is present.
func (c *Config) KeyConfigured() bool {
	return c.ServiceKey != ""
}
