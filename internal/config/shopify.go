package config

import (
	"time"
)

// DefaultShopifyAPIVersion is the Storefront API version used when none is configured
const DefaultShopifyAPIVersion = "2024-01"

// ShopifyConfig holds the shop-level Storefront API credentials
type ShopifyConfig struct {
	StoreDomain string
	APIVersion  string
	AccessToken string
	Timeout     time.Duration
}

// Configured reports whether both the shop domain and the public access token are set
func (c ShopifyConfig) Configured() bool {
	return c.StoreDomain != "" && c.AccessToken != ""
}

// GetShopifyConfig reads the Storefront API settings from the environment
func GetShopifyConfig() ShopifyConfig {
	return ShopifyConfig{
		StoreDomain: GetEnvOrDefault("SHOPIFY_STORE_DOMAIN", ""),
		APIVersion:  GetEnvOrDefault("SHOPIFY_API_VERSION", DefaultShopifyAPIVersion),
		AccessToken: GetEnvOrDefault("SHOPIFY_STOREFRONT_ACCESS_TOKEN", ""),
		Timeout:     time.Duration(parseEnvInt("SHOPIFY_TIMEOUT_SECONDS", 15)) * time.Second,
	}
}
