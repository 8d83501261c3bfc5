package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be positive")
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		return fmt.Errorf("auth.refresh_token_ttl must exceed access_token_ttl")
	}
	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be in %d..%d (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.RateLimitPerMin <= 0 {
		return fmt.Errorf("server.rate_limit_per_min must be positive (got %d)", c.Server.RateLimitPerMin)
	}

	if err := c.Portal.validate(); err != nil {
		return fmt.Errorf("portal: %w", err)
	}

	if c.Events.NATSURL != "" && !strings.Contains(c.Events.NATSURL, "://") {
		return fmt.Errorf("events.nats_url must be a URL (got %q)", c.Events.NATSURL)
	}

	return nil
}

func (p *PortalConfig) validate() error {
	if p.MaxOpenIssuesPerUser <= 0 {
		return fmt.Errorf("max_open_issues_per_user must be positive (got %d)", p.MaxOpenIssuesPerUser)
	}
	if p.MaxWatchersFanout <= 0 {
		return fmt.Errorf("max_watchers_fanout must be positive (got %d)", p.MaxWatchersFanout)
	}
	if p.ListDefaultLimit <= 0 {
		return fmt.Errorf("list_default_limit must be positive (got %d)", p.ListDefaultLimit)
	}
	if p.ListMaxLimit < p.ListDefaultLimit {
		return fmt.Errorf("list_max_limit must be >= list_default_limit (got %d < %d)", p.ListMaxLimit, p.ListDefaultLimit)
	}
	return nil
}
