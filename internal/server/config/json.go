package config

import (
	"encoding/json"
	"os"

	"github.com/aleksvarts/classroom-auth/internal/flagx"
	"github.com/aleksvarts/classroom-auth/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. Duration fields use
// timex.Duration so config files can say "10m" instead of nanoseconds.
// Only fields present in the file override the running config.
type JsonConfig struct {
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	RedisAddr                   *string         `json:"redis_addr"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	RefreshableDuration         *timex.Duration `json:"refreshable_duration"`
	OTPValidityDuration         *timex.Duration `json:"otp_validity_duration"`
	OTPCodeLength               *int            `json:"otp_code_length"`
	SweepInterval               *timex.Duration `json:"sweep_interval"`
	PostmarkServerToken         *string         `json:"postmark_server_token"`
	PostmarkAccountToken        *string         `json:"postmark_account_token"`
	SenderEmail                 *string         `json:"sender_email"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flag, if any. A missing flag means no file is loaded; an
// unreadable or invalid file panics, since a half-applied config file is
// worse than a crash at startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.RedisAddr != nil {
		config.RedisAddr = *c.RedisAddr
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshableDuration != nil {
		config.RefreshableDuration = c.RefreshableDuration.Duration
	}
	if c.OTPValidityDuration != nil {
		config.OTPValidityDuration = c.OTPValidityDuration.Duration
	}
	if c.OTPCodeLength != nil {
		config.OTPCodeLength = *c.OTPCodeLength
	}
	if c.SweepInterval != nil {
		config.SweepInterval = c.SweepInterval.Duration
	}
	if c.PostmarkServerToken != nil {
		config.PostmarkServerToken = *c.PostmarkServerToken
	}
	if c.PostmarkAccountToken != nil {
		config.PostmarkAccountToken = *c.PostmarkAccountToken
	}
	if c.SenderEmail != nil {
		config.SenderEmail = *c.SenderEmail
	}
}
