package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumiere-skin/storefront/internal/config"
	"github.com/lumiere-skin/storefront/internal/infrastructure/shopify/shopifytest"
	"github.com/lumiere-skin/storefront/internal/services"
	"github.com/lumiere-skin/storefront/pkg/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startGateway(t *testing.T) (*httptest.Server, *shopifytest.Server) {
	t.Helper()
	t.Cleanup(config.SetSessionSecret([]byte("e2e-secret")))

	upstream := shopifytest.NewServer(t, shopifytest.NewBackend(shopifytest.Account{
		ID:        "gid://shopify/Customer/7",
		Email:     "jane@example.com",
		Password:  "hunter22",
		FirstName: "Jane",
		LastName:  "Doe",
	}).Respond)

	svc, err := services.InitializeServicesWith(upstream.Config(), nil)
	require.NoError(t, err)

	server := httptest.NewServer(setupRouter(svc))
	t.Cleanup(server.Close)
	return server, upstream
}

func TestMainServer(t *testing.T) {
	server, upstream := startGateway(t)
	ctx := context.Background()

	client, err := storefront.NewClient(server.URL)
	require.NoError(t, err)

	t.Run("session round trip", func(t *testing.T) {
		customer, err := client.Login(ctx, "jane@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", customer.Email)

		status, err := client.Me(ctx)
		require.NoError(t, err)
		assert.True(t, status.LoggedIn)
		require.NotNil(t, status.Customer)
		assert.Equal(t, "jane@example.com", status.Customer.Email)

		var data struct {
			Customer *storefront.Customer `json:"customer"`
		}
		err = client.Query(ctx, storefront.QueryRequest{
			Query: `query getCustomer($customerAccessToken: String!) { customer(customerAccessToken: $customerAccessToken) { id email } }`,
		}, &data)
		require.NoError(t, err)
		require.NotNil(t, data.Customer)
		assert.Equal(t, "gid://shopify/Customer/7", data.Customer.ID)

		require.NoError(t, client.Logout(ctx))

		status, err = client.Me(ctx)
		require.NoError(t, err)
		assert.False(t, status.LoggedIn)
	})

	t.Run("customer query after logout", func(t *testing.T) {
		before := len(upstream.Requests())

		err := client.Query(ctx, storefront.QueryRequest{
			Query: `query { customer(customerAccessToken: $customerAccessToken) { id } }`,
		}, nil)

		var apiErr *storefront.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "Not authenticated", apiErr.Message)
		assert.Len(t, upstream.Requests(), before)
	})

	t.Run("signup then me", func(t *testing.T) {
		fresh, err := storefront.NewClient(server.URL)
		require.NoError(t, err)

		user, err := fresh.SignupOrGuest(ctx, storefront.SignupInput{
			Email:     "a@b.com",
			Password:  "pw123456",
			FirstName: "A",
			LastName:  "B",
		})
		require.NoError(t, err)
		assert.True(t, user.IsShopifyCustomer)

		status, err := fresh.Me(ctx)
		require.NoError(t, err)
		assert.True(t, status.LoggedIn)
		assert.Equal(t, "a@b.com", status.Customer.Email)
	})

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/auth/login", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", config.GetFrontendURL())
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, config.GetFrontendURL(), resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/invalid")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
