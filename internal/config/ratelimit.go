package config

import (
	"net/netip"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type RateLimitConfig struct {
	Enabled bool
	MaxHits int
	Window  time.Duration
}

func GetRateLimitConfig(key string) RateLimitConfig {
	enabled := GetEnvOrDefault("RATELIMIT_ENABLED", "false") == "true"

	configs := map[string]RateLimitConfig{
		"auth_login": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_AUTH_LOGIN", 20), // 20 attempts per minute
			Window:  time.Minute,
		},
		"auth_signup": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_AUTH_SIGNUP", 10), // 10 attempts per minute
			Window:  time.Minute,
		},
		"shopify_proxy": {
			Enabled: enabled,
			MaxHits: parseEnvInt("RATELIMIT_SHOPIFY_PROXY", 300), // 300 requests per minute
			Window:  time.Minute,
		},
	}

	if config, exists := configs[key]; exists {
		return config
	}

	log.Warn().Str("key", key).Msg("No rate limit config found")
	return RateLimitConfig{Enabled: false}
}

// GetTrustedProxies parses TRUSTED_PROXIES, a comma separated list of IPs or
// CIDR ranges whose X-Forwarded-For header is believed. Empty means none.
func GetTrustedProxies() []netip.Prefix {
	raw := GetEnvOrDefault("TRUSTED_PROXIES", "")
	if raw == "" {
		return nil
	}

	var prefixes []netip.Prefix
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			log.Warn().Str("entry", entry).Msg("Ignoring invalid TRUSTED_PROXIES entry")
			continue
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes
}
