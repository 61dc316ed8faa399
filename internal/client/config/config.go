package config

import (
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/dbx"
)

// Config holds runtime settings for the gophbudget CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - AccessToken: owner token minted by the server (server -issue).
//   - OwnerID: the owner whose records this device edits.
//   - DatabasePath: location of the local SQLite file.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - MinSyncInterval, PullInterval: sync engine pacing.
//   - SyncDelay: debounce applied after each local edit.
//   - Retry: local store retry policy.
type Config struct {
	ServerEndpointAddr  string
	AccessToken         string
	OwnerID             string
	DatabasePath        string
	LogLevel            string
	OnlineCheckInterval time.Duration
	MinSyncInterval     time.Duration
	PullInterval        time.Duration
	SyncDelay           time.Duration
	Retry               dbx.RetryPolicy
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabasePath = "gophbudget.db"
	c.LogLevel = "warn"
	c.OnlineCheckInterval = 3 * time.Second
	c.MinSyncInterval = 30 * time.Second
	c.PullInterval = 5 * time.Minute
	c.SyncDelay = 2 * time.Second
	c.Retry = dbx.DefaultRetryPolicy
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
