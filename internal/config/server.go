package config

import "strings"

// GetPort returns the port the HTTP server listens on
func GetPort() string {
	return GetEnvOrDefault("PORT", "3001")
}

// GetFrontendURL returns the SPA origin allowed to call the gateway with credentials
func GetFrontendURL() string {
	return strings.TrimSuffix(GetEnvOrDefault("FRONTEND_URL", "http://localhost:5173"), "/")
}

// IsProduction reports whether the process runs in production mode. Both
// NODE_ENV and ENVIRONMENT are honoured so existing deployments keep working.
func IsProduction() bool {
	if GetEnvOrDefault("NODE_ENV", "") == "production" {
		return true
	}
	return GetEnvOrDefault("ENVIRONMENT", "development") == "production"
}
