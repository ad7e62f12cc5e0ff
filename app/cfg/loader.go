package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/subosito/gotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./pulse.db" description:"Path to the SQLite database file"`

	// Source configuration
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	DataDir    string `long:"data-dir" env:"DATA_DIR" description:"Directory with taxonomy.yml/gazetteer.yml overriding the built-in reference data (optional)"`

	// Reddit API credentials, resolved out-of-band
	RedditClientID     string `long:"reddit-client-id" env:"REDDIT_CLIENT_ID" description:"Reddit API client id"`
	RedditClientSecret string `long:"reddit-client-secret" env:"REDDIT_CLIENT_SECRET" description:"Reddit API client secret"`
	RedditUserAgent    string `long:"reddit-user-agent" env:"REDDIT_USER_AGENT" description:"Descriptive user agent for Reddit API requests"`

	// Application configuration
	Serve    bool   `long:"serve" env:"SERVE" description:"Keep the process running: scheduled runs plus the HTTP API"`
	Port     string `long:"port" env:"PORT" default:"8080" description:"HTTP server port (serve mode)"`
	Interval int    `long:"interval" env:"RUN_INTERVAL" default:"900" description:"Seconds between scrape runs in serve mode"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"bengaluru-pulse/1.0" description:"User agent string for feed requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	// .env is optional; OS environment wins when both are present
	_ = gotenv.Load()

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:             raw.DBPath,
		SourcesDir:         raw.SourcesDir,
		DataDir:            raw.DataDir,
		RedditClientID:     raw.RedditClientID,
		RedditClientSecret: raw.RedditClientSecret,
		RedditUserAgent:    raw.RedditUserAgent,
		Serve:              raw.Serve,
		Port:               raw.Port,
		Interval:           raw.Interval,
		UserAgent:          raw.UserAgent,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
