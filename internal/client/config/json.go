package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/flagx"
	"github.com/dmitrijs2005/gophbudget/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	AccessToken         string         `json:"access_token"`
	OwnerID             string         `json:"owner_id"`
	DatabasePath        string         `json:"database_path"`
	LogLevel            string         `json:"log_level"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	MinSyncInterval     timex.Duration `json:"min_sync_interval"`
	PullInterval        timex.Duration `json:"pull_interval"`
	SyncDelay           timex.Duration `json:"sync_delay"`
	RetryAttempts       uint64         `json:"retry_attempts"`
	RetryDelay          timex.Duration `json:"retry_delay"`
	RetryExponential    bool           `json:"retry_exponential"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

// parseJson overlays Config with values loaded from a JSON file. Keys absent
// from the file leave the current values alone. Panics on read or unmarshal
// errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.OwnerID, jc.OwnerID)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)

	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.MinSyncInterval, jc.MinSyncInterval)
	setDuration(&cfg.PullInterval, jc.PullInterval)
	setDuration(&cfg.SyncDelay, jc.SyncDelay)
	setDuration(&cfg.Retry.Delay, jc.RetryDelay)

	if jc.RetryAttempts != 0 {
		cfg.Retry.Attempts = jc.RetryAttempts
	}
	if jc.RetryExponential {
		cfg.Retry.Exponential = true
	}
}
