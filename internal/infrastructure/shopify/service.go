package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lumiere-skin/storefront/internal/config"
	"github.com/lumiere-skin/storefront/internal/domain/storefront/models"
	"github.com/rs/zerolog/log"
)

// ErrNotConfigured is returned before any network call when the shop domain
// or the storefront access token is missing.
var ErrNotConfigured = models.NewConfigurationError("Shopify is not configured", nil)

// Service talks to the Shopify Storefront GraphQL API with the shop-level
// public access token.
type Service struct {
	client      *http.Client
	endpoint    string
	accessToken string
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

func NewService(cfg config.ShopifyConfig) *Service {
	if !cfg.Configured() {
		log.Warn().Msg("Shopify Storefront API not configured - auth and proxy endpoints will be unavailable")
		return &Service{client: &http.Client{}}
	}

	endpoint := buildEndpoint(cfg.StoreDomain, cfg.APIVersion)
	log.Info().Str("endpoint", endpoint).Msg("Shopify Storefront client initialized")

	return &Service{
		client:      &http.Client{Timeout: cfg.Timeout},
		endpoint:    endpoint,
		accessToken: cfg.AccessToken,
	}
}

// buildEndpoint accepts either a bare shop domain or a full base URL, the
// latter so the client can be pointed at a local mock.
func buildEndpoint(domain, version string) string {
	base := strings.TrimSuffix(domain, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	if version == "" {
		version = config.DefaultShopifyAPIVersion
	}
	return fmt.Sprintf("%s/api/%s/graphql.json", base, version)
}

// Configured reports whether requests can be sent at all
func (s *Service) Configured() bool {
	return s != nil && s.endpoint != "" && s.accessToken != ""
}

// Request posts a GraphQL document and returns the raw data member. It makes
// exactly one HTTP call and never retries.
func (s *Service) Request(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	if variables == nil {
		variables = map[string]interface{}{}
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, models.NewServerError("failed to marshal GraphQL request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, models.NewServerError("failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Shopify-Storefront-Access-Token", s.accessToken)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, models.NewUpstreamError("Shopify request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr == nil {
			log.Debug().Int("status", resp.StatusCode).Str("body", string(respBody)).Msg("Shopify error response body")
		}
		return nil, models.NewUpstreamError(fmt.Sprintf("Shopify API error: %s", resp.Status), nil)
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, models.NewUpstreamError("failed to decode Shopify response", err)
	}

	if len(gqlResp.Errors) > 0 {
		messages := make([]string, 0, len(gqlResp.Errors))
		for _, gqlErr := range gqlResp.Errors {
			messages = append(messages, gqlErr.Message)
		}
		return nil, models.NewUpstreamError(strings.Join(messages, ", "), nil)
	}

	return gqlResp.Data, nil
}
