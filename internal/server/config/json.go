package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophbudget/internal/flagx"
	"github.com/dmitrijs2005/gophbudget/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Every field is a pointer so that
// a key present with a zero value (e.g. "token_validity_duration": 0 for
// tokens that never expire) is told apart from an absent key.
type JsonConfig struct {
	EndpointAddrGRPC      *string         `json:"endpoint_addr_grpc"`
	Storage               *string         `json:"storage"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	S3RootUser            *string         `json:"s3_root_user"`
	S3RootPassword        *string         `json:"s3_root_password"`
	S3Bucket              *string         `json:"s3_bucket"`
	S3Region              *string         `json:"s3_region"`
	S3BaseEndpoint        *string         `json:"s3_base_endpoint"`
	LogLevel              *string         `json:"log_level"`
}

func overlay[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// apply copies the keys present in the file onto config.
func (c *JsonConfig) apply(config *Config) {
	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.Storage, c.Storage)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.LogLevel, c.LogLevel)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
}

// parseJson overlays config with the JSON file named by -c/-config or
// $GOPHBUDGET_CONFIG. No file means no change. Read and decode errors panic,
// since the server cannot start on a half-read configuration.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var c JsonConfig
	if err := json.Unmarshal(data, &c); err != nil {
		panic(err)
	}
	c.apply(config)
}
