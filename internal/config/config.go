package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Lockout scopes for PIN attempt tracking
const (
	LockoutScopeSession = "session" // counter lives and dies with the dialog session
	LockoutScopeDurable = "durable" // counter keyed by instrument id in Postgres
)

// PIN verification modes. The core-banking PIN route is the default;
// local mode checks bcrypt hashes from a provisioning file instead.
const (
	PinModeUpstream = "upstream"
	PinModeLocal    = "local"
)

type Config struct {
	ListenAddr      string `mapstructure:"LISTEN_ADDR"`
	CoreBankURL     string `mapstructure:"CORE_BANK_URL"`
	DBUrl           string `mapstructure:"DB_URL"`
	PinLockoutScope string `mapstructure:"PIN_LOCKOUT_SCOPE"`
	PinMaxAttempts  int    `mapstructure:"PIN_MAX_ATTEMPTS"`
	PinMode         string `mapstructure:"PIN_MODE"`
	PinHashFile     string `mapstructure:"PIN_HASH_FILE"`
	SessionTTLMin   int    `mapstructure:"SESSION_TTL_MIN"`
}

func LoadConfig() (Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("LISTEN_ADDR", ":8080")
	viper.SetDefault("PIN_LOCKOUT_SCOPE", LockoutScopeSession)
	viper.SetDefault("PIN_MAX_ATTEMPTS", 3)
	viper.SetDefault("PIN_MODE", PinModeUpstream)
	viper.SetDefault("SESSION_TTL_MIN", 30)

	// Missing .env is fine, env variables still apply
	_ = viper.ReadInConfig()

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config unmarshal error: %w", err)
	}

	if c.CoreBankURL == "" {
		return Config{}, fmt.Errorf("CORE_BANK_URL is required")
	}

	c.PinLockoutScope = strings.ToLower(c.PinLockoutScope)
	switch c.PinLockoutScope {
	case LockoutScopeSession, LockoutScopeDurable:
	default:
		return Config{}, fmt.Errorf("invalid PIN_LOCKOUT_SCOPE %q", c.PinLockoutScope)
	}
	if c.PinLockoutScope == LockoutScopeDurable && c.DBUrl == "" {
		return Config{}, fmt.Errorf("DB_URL is required when PIN_LOCKOUT_SCOPE=durable")
	}
	if c.PinMaxAttempts < 1 {
		return Config{}, fmt.Errorf("PIN_MAX_ATTEMPTS must be at least 1")
	}

	c.PinMode = strings.ToLower(c.PinMode)
	switch c.PinMode {
	case PinModeUpstream, PinModeLocal:
	default:
		return Config{}, fmt.Errorf("invalid PIN_MODE %q", c.PinMode)
	}
	if c.PinMode == PinModeLocal && c.PinHashFile == "" {
		return Config{}, fmt.Errorf("PIN_HASH_FILE is required when PIN_MODE=local")
	}

	return c, nil
}
