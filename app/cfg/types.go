package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Source configuration
	SourcesDir string
	DataDir    string

	// Reddit API credentials (issued out-of-band)
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string

	// Application configuration
	Serve    bool
	Port     string
	Interval int

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
