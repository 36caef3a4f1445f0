package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/admingate/internal/flagx"
	"github.com/dmitrijs2005/admingate/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "12h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	RedisAddr             string         `json:"redis_addr"`
	SecretKey             string         `json:"secret_key"`
	SessionLifetime       timex.Duration `json:"session_lifetime"`
	HashCost              int            `json:"hash_cost"`
	PasswordMinLength     int            `json:"password_min_length"`
	ProtectedPathPrefixes []string       `json:"protected_path_prefixes"`
	LoginPath             string         `json:"login_path"`
	DashboardPath         string         `json:"dashboard_path"`
	CookieName            string         `json:"cookie_name"`
	CookieSecure          bool           `json:"cookie_secure"`
	MaxLoginAttempts      int            `json:"max_login_attempts"`
	LoginAttemptWindow    timex.Duration `json:"login_attempt_window"`
	HandlerTimeout        timex.Duration `json:"handler_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults and
// command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.SecretKey = c.SecretKey
	config.SessionLifetime = time.Duration(c.SessionLifetime.Duration)
	config.HashCost = c.HashCost
	config.PasswordMinLength = c.PasswordMinLength
	config.ProtectedPathPrefixes = c.ProtectedPathPrefixes
	config.LoginPath = c.LoginPath
	config.DashboardPath = c.DashboardPath
	config.CookieName = c.CookieName
	config.CookieSecure = c.CookieSecure
	config.MaxLoginAttempts = c.MaxLoginAttempts
	config.LoginAttemptWindow = time.Duration(c.LoginAttemptWindow.Duration)
	config.HandlerTimeout = time.Duration(c.HandlerTimeout.Duration)
}
