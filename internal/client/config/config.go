package config

import "time"

// Config holds runtime settings for the evidence CLI.
//
// Fields:
//   - ServerBaseURL: scheme://host:port of the evidence HTTP API.
//   - RequestTimeout: upper bound for one API call or one download.
//   - JournalPath: SQLite file holding the local upload journal.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	JournalPath    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
	c.JournalPath = "evidence-journal.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
