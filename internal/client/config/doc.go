// Package config loads runtime configuration for the gophbudget CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config,
//     or the GOPHBUDGET_CONFIG environment variable.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-t string   access token
//	-o string   owner id
//	-d string   local database path
//	-l string   log level (debug, info, warn, error)
//	-i int      online status check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds. Missing keys keep their defaults:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJ...",
//	  "owner_id": "alice",
//	  "database_path": "gophbudget.db",
//	  "log_level": "warn",
//	  "online_check_interval": "3s",
//	  "min_sync_interval": "30s",
//	  "pull_interval": "5m",
//	  "sync_delay": "2s",
//	  "retry_attempts": 2,
//	  "retry_delay": "50ms",
//	  "retry_exponential": false
//	}
package config
