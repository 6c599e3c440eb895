package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/storydesk/pkg/cache"
	"github.com/umputun/storydesk/pkg/collector"
	"github.com/umputun/storydesk/pkg/config"
	"github.com/umputun/storydesk/pkg/content"
	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/drafts"
	"github.com/umputun/storydesk/pkg/exemplar"
	"github.com/umputun/storydesk/pkg/feed"
	"github.com/umputun/storydesk/pkg/ingest"
	"github.com/umputun/storydesk/pkg/lifecycle"
	"github.com/umputun/storydesk/pkg/repository"
	"github.com/umputun/storydesk/pkg/scheduler"
	"github.com/umputun/storydesk/pkg/scoring"
	"github.com/umputun/storydesk/pkg/signals"
	"github.com/umputun/storydesk/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"storydesk.yml" description:"configuration file"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)
	lgr.Printf("[INFO] starting storydesk version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()
	if err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	lgr.Print("[INFO] shutdown complete")
}

// run wires storage, caches, collectors, lifecycle, jobs and the http server, and blocks until ctx is done
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	setupLog(opts.Debug, opts.NoColor, secrets(cfg)...)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	if err := seedProfiles(ctx, repos.Profile, cfg.TopicProfiles()); err != nil {
		return err
	}

	profiles := cache.NewSnapshot("profiles", cfg.Cache.ProfilesTTL, repos.Profile.LoadProfiles)
	exemplars := cache.NewSnapshot("exemplars", cfg.Cache.ExemplarsTTL, repos.Exemplar.LoadAnalyzed)

	ingestCfg := ingest.Config{
		Collectors: makeCollectors(cfg),
		Store:      repos.Story,
		Profiles:   profiles,
		Exemplars:  exemplars,
		Scorer:     makeScorer(cfg),
		MaxWorkers: cfg.Schedule.MaxWorkers,
	}
	if cfg.Signals.Endpoint != "" {
		ingestCfg.Signals = signals.New(signals.Config{Endpoint: cfg.Signals.Endpoint, Token: cfg.Signals.Token,
			Timeout: cfg.Signals.Timeout})
	}
	ingester := ingest.New(ingestCfg)

	manager := lifecycle.NewManager(lifecycle.Config{
		Stories:       repos.Story,
		Feedback:      repos.Feedback,
		Profiles:      repos.Profile,
		Drafts:        makeDraftCreator(cfg),
		StaleAfter:    cfg.Lifecycle.StaleAfter,
		Window:        cfg.Lifecycle.Window,
		Limit:         cfg.Lifecycle.DashboardLimit,
		SweepOnRead:   cfg.Lifecycle.SweepOnRead,
		FeedbackDelta: cfg.Lifecycle.FeedbackDelta,
	})

	analyzer := exemplar.NewAnalyzer(exemplar.Config{
		Store:      repos.Exemplar,
		Extractor:  content.NewHTTPExtractor(cfg.Extraction.Timeout),
		Profiles:   profiles,
		MaxWorkers: cfg.Extraction.MaxConcurrent,
	})

	sched, err := scheduler.NewScheduler(scheduler.Params{
		Ingester:     ingester,
		Sweeper:      manager,
		Analyzer:     analyzer,
		IngestSpec:   jobSpec(cfg.Schedule.Ingest),
		SweepSpec:    jobSpec(cfg.Schedule.Sweep),
		ExemplarSpec: jobSpec(cfg.Schedule.Exemplars),
		RunOnStart:   cfg.Schedule.RunOnStart,
		JobTimeout:   cfg.Schedule.JobTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(server.Params{
		Config:    cfg,
		Ingester:  ingester,
		Desk:      manager,
		Exemplars: repos.Exemplar,
		Jobs:      sched,
		BaseURL:   cfg.Server.BaseURL,
		Sources:   feedSources(cfg),
		Version:   revision,
		Debug:     opts.Debug,
	})
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// seedProfiles creates configured topic profiles missing in storage, stored profiles keep learned weights
func seedProfiles(ctx context.Context, store *repository.ProfileRepository, profiles []domain.TopicProfile) error {
	now := time.Now().UTC()
	for _, p := range profiles {
		created, err := store.SeedProfile(ctx, p, now)
		if err != nil {
			return fmt.Errorf("failed to seed profile %s: %w", p.Category, err)
		}
		if created {
			lgr.Printf("[INFO] seeded topic profile %s with %d keywords", p.Category, len(p.KeywordWeights))
		}
	}
	return nil
}

func makeCollectors(cfg *config.Config) []ingest.Collector {
	res := make([]ingest.Collector, 0, len(cfg.Collectors.RSS)+1)
	for _, f := range cfg.Collectors.RSS {
		res = append(res, collector.NewRSS(collector.RSSConfig{
			Name:      f.Name,
			URL:       f.URL,
			Kind:      domain.SourceKind(f.Kind),
			MaxItems:  f.MaxItems,
			Timeout:   cfg.Collectors.Timeout,
			UserAgent: cfg.Collectors.UserAgent,
		}))
	}
	if cfg.Collectors.HackerNews.Enabled {
		res = append(res, collector.NewHackerNews(collector.HackerNewsConfig{
			MaxItems: cfg.Collectors.HackerNews.MaxItems,
			Timeout:  cfg.Collectors.Timeout,
		}))
	}
	if len(res) == 0 {
		lgr.Print("[WARN] no collectors configured, ingestion will find nothing")
	}
	return res
}

// feedSources lists configured rss collectors for the OPML export
func feedSources(cfg *config.Config) []feed.Source {
	res := make([]feed.Source, 0, len(cfg.Collectors.RSS))
	for _, f := range cfg.Collectors.RSS {
		res = append(res, feed.Source{Name: f.Name, URL: f.URL, Kind: domain.SourceKind(f.Kind)})
	}
	return res
}

// makeScorer applies configured weights, thresholds and velocity constants over the scoring defaults,
// zero values keep the default
func makeScorer(cfg *config.Config) *scoring.Scorer {
	sc := scoring.DefaultConfig()
	w, v := cfg.Scoring.Weights, cfg.Scoring.Velocity
	overrides := []struct {
		dst *float64
		val float64
	}{
		{&sc.TelegramThreshold, cfg.Scoring.TelegramThreshold}, {&sc.DashboardThreshold, cfg.Scoring.DashboardThreshold},
		{&sc.CategoryWeight, w.Category}, {&sc.CategoryNormalizer, w.CategoryNormalizer},
		{&sc.KeywordWeight, w.Keyword}, {&sc.SourceWeight, w.Source}, {&sc.RecencyWeight, w.Recency},
		{&sc.ExemplarCap, w.ExemplarCap}, {&sc.VelocityWeight, w.Velocity},
		{&sc.AntiPenalty, w.AntiPenalty}, {&sc.ProBonus, w.ProBonus},
		{&sc.Velocity.HeatFactor, v.HeatFactor}, {&sc.Velocity.VolumeFactor, v.VolumeFactor},
		{&sc.Velocity.VolumeThreshold, v.VolumeThreshold}, {&sc.Velocity.RisingBonus, v.RisingBonus},
		{&sc.Velocity.NewBonus, v.NewBonus}, {&sc.Velocity.AggregatorFactor, v.AggregatorFactor},
		{&sc.Velocity.AggVelocityFactor, v.AggVelocityFactor},
		{&sc.Velocity.TrendStrongPercent, v.TrendStrongPercent}, {&sc.Velocity.TrendStrongBonus, v.TrendStrongBonus},
		{&sc.Velocity.TrendModerate, v.TrendModerate}, {&sc.Velocity.TrendModerateBonus, v.TrendModerateBonus},
		{&sc.Velocity.HighVelocityCutoff, v.HighVelocityCutoff},
	}
	for _, o := range overrides {
		if o.val != 0 {
			*o.dst = o.val
		}
	}
	if w.SourceSaturation > 0 {
		sc.SourceSaturation = w.SourceSaturation
	}
	if cfg.Scoring.RecencyWindow > 0 {
		sc.RecencyWindow = cfg.Scoring.RecencyWindow
	}

	anti, pro := scoring.DefaultAntiSignals, scoring.DefaultProSignals
	if len(cfg.Scoring.AntiSignals) > 0 {
		anti = cfg.Scoring.AntiSignals
	}
	if len(cfg.Scoring.ProSignals) > 0 {
		pro = cfg.Scoring.ProSignals
	}
	return scoring.NewScorer(sc, scoring.NewPhraseStance(anti, pro, sc.AntiPenalty, sc.ProBonus))
}

func makeDraftCreator(cfg *config.Config) lifecycle.DraftCreator {
	if cfg.Drafts.Endpoint == "" {
		lgr.Printf("[INFO] drafts endpoint not set, claims get local draft ids")
		return drafts.Local{Prefix: cfg.Drafts.Prefix}
	}
	return drafts.NewHTTPCreator(drafts.HTTPConfig{Endpoint: cfg.Drafts.Endpoint, Token: cfg.Drafts.Token,
		Timeout: cfg.Drafts.Timeout})
}

// jobSpec maps a disabled schedule to the empty spec the scheduler doesn't schedule
func jobSpec(spec string) string {
	if !config.Enabled(spec) {
		return ""
	}
	return spec
}

// secrets returns non-empty tokens to be masked in logs
func secrets(cfg *config.Config) []string {
	var res []string
	for _, s := range []string{cfg.Signals.Token, cfg.Drafts.Token} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
