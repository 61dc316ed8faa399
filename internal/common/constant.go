package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SettingLastSyncPrefix and SettingLastPullPrefix prefix the durable settings
// keys holding per-owner sync bookkeeping.
const (
	SettingLastSyncPrefix = "sync.last_success."
	SettingLastPullPrefix = "sync.last_pull."
)
