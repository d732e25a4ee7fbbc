package services

import (
	"sync"

	"github.com/lumiere-skin/storefront/internal/config"
	"github.com/lumiere-skin/storefront/internal/infrastructure/redis"
	"github.com/lumiere-skin/storefront/internal/infrastructure/shopify"
	"github.com/lumiere-skin/storefront/internal/services/auth"
	"github.com/lumiere-skin/storefront/internal/services/proxy"
	"github.com/lumiere-skin/storefront/internal/services/session"
	"github.com/rs/zerolog/log"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex
)

type Services struct {
	redisService   *redis.Service
	shopifyService *shopify.Service
	sessionService *session.Service
	authService    *auth.Service
	proxyService   *proxy.Service
}

// InitializeServices builds the service graph from the environment
func InitializeServices() (*Services, error) {
	return InitializeServicesWith(config.GetShopifyConfig(), redis.NewService(config.GetRedisURL(), config.GetRedisPassword()))
}

// InitializeServicesWith builds the service graph from explicit
// infrastructure. A nil Redis service keeps sessions in memory.
func InitializeServicesWith(shopifyConfig config.ShopifyConfig, redisService *redis.Service) (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	if redisService == nil {
		log.Info().Msg("Redis not configured - sessions will not survive a restart")
	}

	shopifyService := shopify.NewService(shopifyConfig)
	if !shopifyService.Configured() {
		log.Warn().Msg("Shopify is not configured - auth and proxy endpoints will answer 503")
	}
	log.Info().Msg("Initializing Shopify service")

	sessionService := session.NewService(redisService)
	log.Info().Msg("Initializing session service")

	authService := auth.NewService(shopifyService)
	log.Info().Msg("Initializing auth service")

	proxyService := proxy.NewService(shopifyService)
	log.Info().Msg("Initializing proxy service")

	log.Info().Msg("All services initialized successfully")

	return &Services{
		redisService:   redisService,
		shopifyService: shopifyService,
		sessionService: sessionService,
		authService:    authService,
		proxyService:   proxyService,
	}, nil
}

// GetShopifyService returns the Storefront API client
func (s *Services) GetShopifyService() *shopify.Service {
	return s.shopifyService
}

// GetSessionService returns the session service
func (s *Services) GetSessionService() *session.Service {
	return s.sessionService
}

// GetAuthService returns the auth gateway
func (s *Services) GetAuthService() *auth.Service {
	return s.authService
}

// GetProxyService returns the GraphQL proxy
func (s *Services) GetProxyService() *proxy.Service {
	return s.proxyService
}

// Close releases the Redis connection when there is one
func (s *Services) Close() error {
	if s.redisService == nil {
		return nil
	}
	return s.redisService.Close()
}
