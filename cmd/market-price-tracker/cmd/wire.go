package cmd

import (
	"fmt"
	"log/slog"

	"github.com/donaldgifford/market-price-tracker/internal/config"
	"github.com/donaldgifford/market-price-tracker/internal/engine"
	"github.com/donaldgifford/market-price-tracker/internal/notify"
	"github.com/donaldgifford/market-price-tracker/internal/scrape"
	"github.com/donaldgifford/market-price-tracker/pkg/identifier"
	"github.com/donaldgifford/market-price-tracker/pkg/trend"
)

// siteProfile applies configured overrides to a built-in profile.
func siteProfile(base scrape.SiteProfile, sc config.SiteConfig) (scrape.SiteProfile, error) {
	if sc.BaseURL != "" {
		base.BaseURL = sc.BaseURL
	}
	if sc.SearchURL != "" {
		base.SearchURL = sc.SearchURL
	}
	if len(sc.IdentifierPatterns) == 0 {
		return base, nil
	}

	patterns := make(map[string]string, len(sc.IdentifierPatterns))
	order := make([]string, 0, len(sc.IdentifierPatterns))
	for _, p := range sc.IdentifierPatterns {
		patterns[p.Name] = p.Pattern
		order = append(order, p.Name)
	}
	rules, err := identifier.CompileRules(patterns, order)
	if err != nil {
		return base, fmt.Errorf("%s identifier patterns: %w", base.Site, err)
	}
	base.Rules = rules
	return base, nil
}

// newBackend builds the configured adapter for one site. Each site gets
// its own rate limiter so a slow target search never starves source fetches.
func newBackend(cfg *config.ScrapeConfig, profile scrape.SiteProfile, log *slog.Logger) scrape.Backend {
	rl := cfg.RateLimit
	var limiterOpts []scrape.RateLimiterOption
	if rl.DailyBudget > 0 {
		limiterOpts = append(limiterOpts, scrape.WithDailyBudget(rl.DailyBudget))
	}
	limiter := scrape.NewRateLimiter(rl.PerSecond, rl.Burst, limiterOpts...)
	log = log.With("site", string(profile.Site))

	if cfg.Backend == scrape.BackendBrowser {
		opts := []scrape.BrowserOption{
			scrape.WithBrowserTimeout(cfg.Timeout),
			scrape.WithBrowserRateLimiter(limiter),
			scrape.WithBrowserSearchRetry(cfg.Search.Attempts, cfg.Search.Wait),
			scrape.WithBrowserLogger(log),
		}
		if cfg.Browser.ExecPath != "" {
			opts = append(opts, scrape.WithExecPath(cfg.Browser.ExecPath))
		}
		if cfg.Browser.SettleDelay > 0 {
			opts = append(opts, scrape.WithSettleDelay(cfg.Browser.SettleDelay))
		}
		if len(cfg.UserAgents) > 0 {
			opts = append(opts, scrape.WithBrowserUserAgent(cfg.UserAgents[0]))
		}
		return scrape.NewBrowserBackend(profile, opts...)
	}

	opts := []scrape.HTTPOption{
		scrape.WithTimeout(cfg.Timeout),
		scrape.WithRateLimiter(limiter),
		scrape.WithSearchRetry(cfg.Search.Attempts, cfg.Search.Wait),
		scrape.WithMaxResults(cfg.MaxResults),
		scrape.WithLogger(log),
	}
	if len(cfg.UserAgents) > 0 {
		opts = append(opts, scrape.WithUserAgents(cfg.UserAgents))
	}
	return scrape.NewHTTPBackend(profile, opts...)
}

// newBackends builds the source and target adapters.
func newBackends(cfg *config.ScrapeConfig, log *slog.Logger) (source, target scrape.Backend, err error) {
	srcProfile, err := siteProfile(scrape.SourceProfile(), cfg.Source)
	if err != nil {
		return nil, nil, err
	}
	tgtProfile, err := siteProfile(scrape.TargetProfile(), cfg.Target)
	if err != nil {
		return nil, nil, err
	}
	return newBackend(cfg, srcProfile, log), newBackend(cfg, tgtProfile, log), nil
}

// closeBackend releases browser resources; HTTP backends hold none.
func closeBackend(b scrape.Backend) {
	if c, ok := b.(interface{ Close() }); ok {
		c.Close()
	}
}

// newNotifier combines the enabled notification targets. With none
// enabled, alerts are logged and dropped.
func newNotifier(cfg *config.NotificationsConfig, log *slog.Logger) notify.Notifier {
	var targets notify.Multi
	if cfg.Email.Enabled {
		targets = append(targets, notify.NewEmailNotifier(notify.EmailConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		}))
	}
	if cfg.Discord.Enabled {
		targets = append(targets, notify.NewDiscordNotifier(cfg.Discord.WebhookURL))
	}

	switch len(targets) {
	case 0:
		log.Warn("no notification target enabled, alerts will be logged only")
		return notify.NewNoOpNotifier(log)
	case 1:
		return targets[0]
	default:
		return targets
	}
}

func engineOptions(cfg *config.Config, source scrape.ListingSearcher, log *slog.Logger) []engine.EngineOption {
	return []engine.EngineOption{
		engine.WithLogger(log),
		engine.WithSourceSearcher(source),
		engine.WithMaxKeywords(cfg.Matching.MaxKeywords),
		engine.WithCandidateCap(cfg.Matching.CandidateCap),
		engine.WithRelatedCap(cfg.Matching.RelatedCap),
		engine.WithTrendOptions(
			trend.WithTrees(cfg.Analysis.Trees),
			trend.WithSubsample(cfg.Analysis.Subsample),
			trend.WithContamination(cfg.Analysis.Contamination),
		),
	}
}
