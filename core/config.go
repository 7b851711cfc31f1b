package core

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	ServiceName          string `koanf:"service_name" mapstructure:"service_name"`
	DefaultProvider      string `koanf:"default_provider" mapstructure:"default_provider"`
	StateTTLSeconds      int    `koanf:"state_ttl_seconds" mapstructure:"state_ttl_seconds"`
	CredentialTTLSeconds int    `koanf:"credential_ttl_seconds" mapstructure:"credential_ttl_seconds"`
	ItemLimit            int    `koanf:"item_limit" mapstructure:"item_limit"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:          "crm-connect",
		DefaultProvider:      "hubspot",
		StateTTLSeconds:      int((10 * time.Minute).Seconds()),
		CredentialTTLSeconds: int((10 * time.Minute).Seconds()),
		ItemLimit:            100,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.StateTTLSeconds < 0 {
		return fmt.Errorf("core: state_ttl_seconds must be >= 0")
	}
	if c.CredentialTTLSeconds < 0 {
		return fmt.Errorf("core: credential_ttl_seconds must be >= 0")
	}
	if c.ItemLimit < 0 {
		return fmt.Errorf("core: item_limit must be >= 0")
	}
	return nil
}

func (c Config) StateTTL() time.Duration {
	if c.StateTTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.StateTTLSeconds) * time.Second
}

func (c Config) CredentialTTL() time.Duration {
	if c.CredentialTTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.CredentialTTLSeconds) * time.Second
}

func (c Config) FetchLimit() int {
	if c.ItemLimit <= 0 {
		return 100
	}
	return c.ItemLimit
}
