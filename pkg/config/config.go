// Package config loads the YAML configuration, applies defaults and validates it.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/scoring"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
		BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Public URL used in feed links"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:storydesk.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Periodic jobs"`

	Collectors CollectorsConfig `yaml:"collectors" json:"collectors" jsonschema:"description=Story candidate sources"`

	Signals struct {
		Endpoint string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=Trend service endpoint, empty disables signal lookup"`
		Token    string        `yaml:"token" json:"token" jsonschema:"description=Bearer token (can use environment variable)"`
		Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=5s,description=Lookup timeout"`
	} `yaml:"signals" json:"signals" jsonschema:"description=Platform signal lookup"`

	Drafts struct {
		Endpoint string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=Editorial system draft endpoint, empty issues local draft ids"`
		Token    string        `yaml:"token" json:"token" jsonschema:"description=Bearer token (can use environment variable)"`
		Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Draft request timeout"`
		Prefix   string        `yaml:"prefix" json:"prefix" jsonschema:"default=draft,description=Prefix of local draft ids"`
	} `yaml:"drafts" json:"drafts" jsonschema:"description=Article draft creation on claim"`

	Cache struct {
		ProfilesTTL  time.Duration `yaml:"profiles_ttl" json:"profiles_ttl" jsonschema:"default=5m,description=Topic profiles cache TTL"`
		ExemplarsTTL time.Duration `yaml:"exemplars_ttl" json:"exemplars_ttl" jsonschema:"default=60m,description=Exemplars cache TTL"`
	} `yaml:"cache" json:"cache" jsonschema:"description=Scoring input caches"`

	Lifecycle LifecycleConfig `yaml:"lifecycle" json:"lifecycle" jsonschema:"description=Story lifecycle and dashboard"`

	Scoring ScoringConfig `yaml:"scoring" json:"scoring" jsonschema:"description=Scoring thresholds and editorial phrases"`

	Extraction struct {
		Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Exemplar page fetch timeout"`
		MaxConcurrent int           `yaml:"max_concurrent" json:"max_concurrent" jsonschema:"default=3,description=Maximum concurrent exemplar extractions"`
	} `yaml:"extraction" json:"extraction" jsonschema:"description=Exemplar content extraction"`

	Profiles []ProfileSeed `yaml:"profiles" json:"profiles,omitempty" jsonschema:"description=Topic profiles seeded on first start"`
}

// ScheduleConfig holds cron specs of periodic jobs, an empty spec disables the job
type ScheduleConfig struct {
	Ingest     string        `yaml:"ingest" json:"ingest" jsonschema:"default=*/15 * * * *,description=Ingestion cron spec"`
	Sweep      string        `yaml:"sweep" json:"sweep" jsonschema:"default=@every 30m,description=Staleness sweep cron spec"`
	Exemplars  string        `yaml:"exemplars" json:"exemplars" jsonschema:"default=@every 5m,description=Exemplar analysis cron spec"`
	RunOnStart bool          `yaml:"run_on_start" json:"run_on_start" jsonschema:"default=true,description=Run ingestion right after start"`
	JobTimeout time.Duration `yaml:"job_timeout" json:"job_timeout" jsonschema:"default=10m,description=Maximum duration of one job run"`
	MaxWorkers int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,description=Concurrent candidates per ingestion"`
}

// CollectorsConfig defines reference collectors
type CollectorsConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Fetch timeout per collector"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for feed requests"`
	RSS        []RSSFeed     `yaml:"rss" json:"rss,omitempty" jsonschema:"description=RSS and Atom feeds"`
	HackerNews struct {
		Enabled  bool `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Collect Hacker News top stories"`
		MaxItems int  `yaml:"max_items" json:"max_items" jsonschema:"default=30,description=Top stories per collection"`
	} `yaml:"hackernews" json:"hackernews" jsonschema:"description=Hacker News aggregator"`
}

// RSSFeed defines one feed collector
type RSSFeed struct {
	Name     string `yaml:"name" json:"name" jsonschema:"description=Source name, defaults to the URL"`
	URL      string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
	Kind     string `yaml:"kind" json:"kind" jsonschema:"enum=rss,enum=wire,enum=aggregator,enum=social,default=rss,description=Source kind"`
	MaxItems int    `yaml:"max_items" json:"max_items" jsonschema:"default=0,description=Items per collection, 0 for all"`
}

// LifecycleConfig holds dashboard and staleness parameters
type LifecycleConfig struct {
	StaleAfter     time.Duration `yaml:"stale_after" json:"stale_after" jsonschema:"default=18h,description=Unclaimed stories older than this are dismissed"`
	Window         time.Duration `yaml:"window" json:"window" jsonschema:"default=24h,description=Dashboard shows stories first seen within this window"`
	DashboardLimit int           `yaml:"dashboard_limit" json:"dashboard_limit" jsonschema:"default=10,description=Dashboard size"`
	SweepOnRead    bool          `yaml:"sweep_on_read" json:"sweep_on_read" jsonschema:"default=true,description=Sweep stale stories before each dashboard read"`
	FeedbackDelta  float64       `yaml:"feedback_delta" json:"feedback_delta" jsonschema:"default=0.5,description=Keyword weight step applied by ratings"`
}

// ScoringConfig overrides scoring weights, thresholds and editorial phrase lists
type ScoringConfig struct {
	TelegramThreshold  float64         `yaml:"telegram_threshold" json:"telegram_threshold" jsonschema:"default=85,minimum=0,maximum=100,description=Total score for the telegram alert"`
	DashboardThreshold float64         `yaml:"dashboard_threshold" json:"dashboard_threshold" jsonschema:"default=40,minimum=0,maximum=100,description=Total score for the dashboard alert"`
	RecencyWindow      time.Duration   `yaml:"recency_window" json:"recency_window" jsonschema:"default=12h,description=Age at which the recency term reaches zero"`
	Weights            ScoringWeights  `yaml:"weights" json:"weights" jsonschema:"description=Term weights and caps of the relevance score"`
	Velocity           ScoringVelocity `yaml:"velocity" json:"velocity" jsonschema:"description=Velocity blend constants"`
	AntiSignals        []string        `yaml:"anti_signals" json:"anti_signals,omitempty" jsonschema:"description=Headline phrases editors pass on, replaces the built-in list"`
	ProSignals         []string        `yaml:"pro_signals" json:"pro_signals,omitempty" jsonschema:"description=Headline phrases editors pick up, replaces the built-in list"`
}

// ScoringWeights holds the maximum contribution of each scoring term, zero keeps the built-in value
type ScoringWeights struct {
	Category           float64 `yaml:"category" json:"category" jsonschema:"default=30,minimum=0,maximum=100,description=Category term weight"`
	CategoryNormalizer float64 `yaml:"category_normalizer" json:"category_normalizer" jsonschema:"default=5,minimum=0,description=Matched keyword weight sum giving the full category term"`
	Keyword            float64 `yaml:"keyword" json:"keyword" jsonschema:"default=25,minimum=0,maximum=100,description=Keyword match term weight"`
	Source             float64 `yaml:"source" json:"source" jsonschema:"default=15,minimum=0,maximum=100,description=Source corroboration term weight"`
	SourceSaturation   int     `yaml:"source_saturation" json:"source_saturation" jsonschema:"default=3,minimum=0,description=Source count giving the full corroboration term"`
	Recency            float64 `yaml:"recency" json:"recency" jsonschema:"default=15,minimum=0,maximum=100,description=Recency term weight"`
	ExemplarCap        float64 `yaml:"exemplar_cap" json:"exemplar_cap" jsonschema:"default=15,minimum=0,maximum=100,description=Maximum exemplar similarity bonus"`
	Velocity           float64 `yaml:"velocity" json:"velocity" jsonschema:"default=15,minimum=0,maximum=100,description=Velocity score weight"`
	AntiPenalty        float64 `yaml:"anti_penalty" json:"anti_penalty" jsonschema:"default=-25,minimum=-100,maximum=0,description=Score change for anti-signal headlines"`
	ProBonus           float64 `yaml:"pro_bonus" json:"pro_bonus" jsonschema:"default=10,minimum=0,maximum=100,description=Score change for pro-signal headlines"`
}

// ScoringVelocity holds the velocity blend constants, zero keeps the built-in value
type ScoringVelocity struct {
	HeatFactor         float64 `yaml:"heat_factor" json:"heat_factor" jsonschema:"default=0.6,minimum=0,maximum=1,description=Share of social heat in the blend"`
	VolumeFactor       float64 `yaml:"volume_factor" json:"volume_factor" jsonschema:"default=0.3,minimum=0,maximum=1,description=Share of mention volume in the blend"`
	VolumeThreshold    float64 `yaml:"volume_threshold" json:"volume_threshold" jsonschema:"default=10000,minimum=0,description=Mention volume saturating the volume share"`
	RisingBonus        float64 `yaml:"rising_bonus" json:"rising_bonus" jsonschema:"default=0.1,minimum=0,maximum=1,description=Bonus for rising topics"`
	NewBonus           float64 `yaml:"new_bonus" json:"new_bonus" jsonschema:"default=0.05,minimum=0,maximum=1,description=Bonus for new topics"`
	AggregatorFactor   float64 `yaml:"aggregator_factor" json:"aggregator_factor" jsonschema:"default=0.25,minimum=0,maximum=1,description=Share of aggregator score in the blend"`
	AggVelocityFactor  float64 `yaml:"aggregator_velocity_factor" json:"aggregator_velocity_factor" jsonschema:"default=0.15,minimum=0,maximum=1,description=Share of aggregator velocity in the blend"`
	TrendStrongPercent float64 `yaml:"trend_strong_percent" json:"trend_strong_percent" jsonschema:"default=100,minimum=0,description=Trend growth percent counted as strong"`
	TrendStrongBonus   float64 `yaml:"trend_strong_bonus" json:"trend_strong_bonus" jsonschema:"default=0.1,minimum=0,maximum=1,description=Bonus for strong trends"`
	TrendModerate      float64 `yaml:"trend_moderate_percent" json:"trend_moderate_percent" jsonschema:"default=50,minimum=0,description=Trend growth percent counted as moderate"`
	TrendModerateBonus float64 `yaml:"trend_moderate_bonus" json:"trend_moderate_bonus" jsonschema:"default=0.05,minimum=0,maximum=1,description=Bonus for moderate trends"`
	HighVelocityCutoff float64 `yaml:"high_velocity_cutoff" json:"high_velocity_cutoff" jsonschema:"default=0.6,minimum=0,maximum=1,description=Raw blend marking a story as high velocity"`
}

// ProfileSeed is a topic profile created on first start
type ProfileSeed struct {
	Category string             `yaml:"category" json:"category" jsonschema:"required,description=Editorial category"`
	Keywords map[string]float64 `yaml:"keywords" json:"keywords" jsonschema:"description=Keyword weights, 0.5 to 10"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	// booleans defaulting to true can't be told from unset after decoding
	var cfg Config
	cfg.Schedule.RunOnStart = true
	cfg.Lifecycle.SweepOnRead = true
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// schema validation is supplementary, semantic checks above are authoritative
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:storydesk.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	if cfg.Schedule.Ingest == "" {
		cfg.Schedule.Ingest = "*/15 * * * *"
	}
	if cfg.Schedule.Sweep == "" {
		cfg.Schedule.Sweep = "@every 30m"
	}
	if cfg.Schedule.Exemplars == "" {
		cfg.Schedule.Exemplars = "@every 5m"
	}
	if cfg.Schedule.JobTimeout == 0 {
		cfg.Schedule.JobTimeout = 10 * time.Minute
	}
	if cfg.Schedule.MaxWorkers == 0 {
		cfg.Schedule.MaxWorkers = 5
	}

	if cfg.Collectors.Timeout == 0 {
		cfg.Collectors.Timeout = 30 * time.Second
	}
	if cfg.Collectors.HackerNews.MaxItems == 0 {
		cfg.Collectors.HackerNews.MaxItems = 30
	}
	for i := range cfg.Collectors.RSS {
		if cfg.Collectors.RSS[i].Name == "" {
			cfg.Collectors.RSS[i].Name = cfg.Collectors.RSS[i].URL
		}
		if cfg.Collectors.RSS[i].Kind == "" {
			cfg.Collectors.RSS[i].Kind = string(domain.KindRSS)
		}
	}

	if cfg.Signals.Timeout == 0 {
		cfg.Signals.Timeout = 5 * time.Second
	}
	if cfg.Drafts.Timeout == 0 {
		cfg.Drafts.Timeout = 10 * time.Second
	}
	if cfg.Drafts.Prefix == "" {
		cfg.Drafts.Prefix = "draft"
	}

	if cfg.Cache.ProfilesTTL == 0 {
		cfg.Cache.ProfilesTTL = 5 * time.Minute
	}
	if cfg.Cache.ExemplarsTTL == 0 {
		cfg.Cache.ExemplarsTTL = 60 * time.Minute
	}

	if cfg.Lifecycle.StaleAfter == 0 {
		cfg.Lifecycle.StaleAfter = 18 * time.Hour
	}
	if cfg.Lifecycle.Window == 0 {
		cfg.Lifecycle.Window = 24 * time.Hour
	}
	if cfg.Lifecycle.DashboardLimit == 0 {
		cfg.Lifecycle.DashboardLimit = 10
	}
	if cfg.Lifecycle.FeedbackDelta == 0 {
		cfg.Lifecycle.FeedbackDelta = 0.5
	}

	if cfg.Scoring.TelegramThreshold == 0 {
		cfg.Scoring.TelegramThreshold = 85
	}
	if cfg.Scoring.DashboardThreshold == 0 {
		cfg.Scoring.DashboardThreshold = 40
	}
	if cfg.Scoring.RecencyWindow == 0 {
		cfg.Scoring.RecencyWindow = 12 * time.Hour
	}
	setScoringDefaults(&cfg.Scoring)

	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}
	if cfg.Extraction.MaxConcurrent == 0 {
		cfg.Extraction.MaxConcurrent = 3
	}
}

// setScoringDefaults fills unset weights and velocity constants with the scoring engine defaults
func setScoringDefaults(sc *ScoringConfig) {
	def := scoring.DefaultConfig()
	w, v := &sc.Weights, &sc.Velocity
	floats := []struct {
		dst *float64
		def float64
	}{
		{&w.Category, def.CategoryWeight}, {&w.CategoryNormalizer, def.CategoryNormalizer},
		{&w.Keyword, def.KeywordWeight}, {&w.Source, def.SourceWeight}, {&w.Recency, def.RecencyWeight},
		{&w.ExemplarCap, def.ExemplarCap}, {&w.Velocity, def.VelocityWeight},
		{&w.AntiPenalty, def.AntiPenalty}, {&w.ProBonus, def.ProBonus},
		{&v.HeatFactor, def.Velocity.HeatFactor}, {&v.VolumeFactor, def.Velocity.VolumeFactor},
		{&v.VolumeThreshold, def.Velocity.VolumeThreshold}, {&v.RisingBonus, def.Velocity.RisingBonus},
		{&v.NewBonus, def.Velocity.NewBonus}, {&v.AggregatorFactor, def.Velocity.AggregatorFactor},
		{&v.AggVelocityFactor, def.Velocity.AggVelocityFactor},
		{&v.TrendStrongPercent, def.Velocity.TrendStrongPercent}, {&v.TrendStrongBonus, def.Velocity.TrendStrongBonus},
		{&v.TrendModerate, def.Velocity.TrendModerate}, {&v.TrendModerateBonus, def.Velocity.TrendModerateBonus},
		{&v.HighVelocityCutoff, def.Velocity.HighVelocityCutoff},
	}
	for _, f := range floats {
		if *f.dst == 0 {
			*f.dst = f.def
		}
	}
	if w.SourceSaturation == 0 {
		w.SourceSaturation = def.SourceSaturation
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return errors.New("server timeout must be at least 1 second")
	}

	specs := []struct{ name, spec string }{
		{"schedule.ingest", cfg.Schedule.Ingest},
		{"schedule.sweep", cfg.Schedule.Sweep},
		{"schedule.exemplars", cfg.Schedule.Exemplars},
	}
	for _, s := range specs {
		if s.spec == "-" { // explicit "-" disables a job
			continue
		}
		if _, err := cron.ParseStandard(s.spec); err != nil {
			return fmt.Errorf("%s: invalid cron spec %q: %w", s.name, s.spec, err)
		}
	}

	for i, f := range cfg.Collectors.RSS {
		if f.URL == "" {
			return fmt.Errorf("collectors.rss[%d].url is required", i)
		}
		if !domain.SourceKind(f.Kind).IsValid() {
			return fmt.Errorf("collectors.rss[%d].kind %q is unknown", i, f.Kind)
		}
	}

	if cfg.Lifecycle.StaleAfter <= 0 || cfg.Lifecycle.Window <= 0 {
		return errors.New("lifecycle stale_after and window must be positive")
	}
	if cfg.Lifecycle.DashboardLimit < 1 {
		return errors.New("lifecycle.dashboard_limit must be at least 1")
	}
	if cfg.Lifecycle.FeedbackDelta < 0 || cfg.Lifecycle.FeedbackDelta > domain.MaxKeywordWeight {
		return fmt.Errorf("lifecycle.feedback_delta must be between 0 and %v", domain.MaxKeywordWeight)
	}

	if cfg.Scoring.DashboardThreshold > cfg.Scoring.TelegramThreshold {
		return errors.New("scoring.dashboard_threshold must not exceed telegram_threshold")
	}
	if cfg.Scoring.TelegramThreshold > 100 || cfg.Scoring.DashboardThreshold < 0 {
		return errors.New("scoring thresholds must be within 0..100")
	}
	if err := validateScoring(cfg.Scoring); err != nil {
		return err
	}

	seen := map[string]bool{}
	for i, p := range cfg.Profiles {
		if p.Category == "" {
			return fmt.Errorf("profiles[%d].category is required", i)
		}
		if seen[p.Category] {
			return fmt.Errorf("profiles[%d]: duplicate category %q", i, p.Category)
		}
		seen[p.Category] = true
	}
	return nil
}

// Enabled reports whether a schedule spec runs a job
func Enabled(spec string) bool {
	return spec != "" && spec != "-"
}

// TopicProfiles returns profile seeds as domain profiles
func (c *Config) TopicProfiles() []domain.TopicProfile {
	res := make([]domain.TopicProfile, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		res = append(res, domain.TopicProfile{Category: p.Category, KeywordWeights: p.Keywords})
	}
	return res
}

// GetServerConfig returns the listen address and server timeout
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

func validateScoring(sc ScoringConfig) error {
	w, v := sc.Weights, sc.Velocity
	weights := map[string]float64{"category": w.Category, "keyword": w.Keyword, "source": w.Source,
		"recency": w.Recency, "exemplar_cap": w.ExemplarCap, "velocity": w.Velocity, "pro_bonus": w.ProBonus}
	for name, val := range weights {
		if val < 0 || val > 100 {
			return fmt.Errorf("scoring.weights.%s must be within 0..100", name)
		}
	}
	if w.AntiPenalty < -100 || w.AntiPenalty > 0 {
		return errors.New("scoring.weights.anti_penalty must be within -100..0")
	}
	if w.CategoryNormalizer <= 0 || w.SourceSaturation < 1 {
		return errors.New("scoring.weights category_normalizer and source_saturation must be positive")
	}

	shares := map[string]float64{"heat_factor": v.HeatFactor, "volume_factor": v.VolumeFactor,
		"rising_bonus": v.RisingBonus, "new_bonus": v.NewBonus, "aggregator_factor": v.AggregatorFactor,
		"aggregator_velocity_factor": v.AggVelocityFactor, "trend_strong_bonus": v.TrendStrongBonus,
		"trend_moderate_bonus": v.TrendModerateBonus, "high_velocity_cutoff": v.HighVelocityCutoff}
	for name, val := range shares {
		if val < 0 || val > 1 {
			return fmt.Errorf("scoring.velocity.%s must be within 0..1", name)
		}
	}
	if v.VolumeThreshold <= 0 {
		return errors.New("scoring.velocity.volume_threshold must be positive")
	}
	if v.TrendModerate > v.TrendStrongPercent {
		return errors.New("scoring.velocity.trend_moderate_percent must not exceed trend_strong_percent")
	}
	return nil
}
