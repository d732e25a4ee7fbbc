package shopify

import (
	"context"
	"encoding/json"

	"github.com/lumiere-skin/storefront/internal/domain/storefront/models"
)

const customerAccessTokenCreateMutation = `
mutation customerAccessTokenCreate($input: CustomerAccessTokenCreateInput!) {
  customerAccessTokenCreate(input: $input) {
    customerAccessToken {
      accessToken
      expiresAt
    }
    customerUserErrors {
      code
      field
      message
    }
  }
}`

const customerQuery = `
query getCustomer($customerAccessToken: String!) {
  customer(customerAccessToken: $customerAccessToken) {
    id
    email
    firstName
    lastName
    phone
  }
}`

const customerCreateMutation = `
mutation customerCreate($input: CustomerCreateInput!) {
  customerCreate(input: $input) {
    customer {
      id
      email
      firstName
      lastName
    }
    customerUserErrors {
      code
      field
      message
    }
  }
}`

const customerAccessTokenDeleteMutation = `
mutation customerAccessTokenDelete($customerAccessToken: String!) {
  customerAccessTokenDelete(customerAccessToken: $customerAccessToken) {
    deletedAccessToken
    userErrors {
      field
      message
    }
  }
}`

// CustomerCreateInput is the signup payload forwarded to customerCreate
type CustomerCreateInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreateAccessToken exchanges credentials for a customer access token. User
// errors are returned as data, not as an error, so callers can surface them.
func (s *Service) CreateAccessToken(ctx context.Context, email, password string) (*models.CustomerAccessToken, []models.UserError, error) {
	data, err := s.Request(ctx, customerAccessTokenCreateMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"email":    email,
			"password": password,
		},
	})
	if err != nil {
		return nil, nil, err
	}

	var payload struct {
		CustomerAccessTokenCreate struct {
			CustomerAccessToken *models.CustomerAccessToken `json:"customerAccessToken"`
			CustomerUserErrors  []models.UserError          `json:"customerUserErrors"`
		} `json:"customerAccessTokenCreate"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, nil, models.NewUpstreamError("failed to decode customerAccessTokenCreate", err)
	}

	result := payload.CustomerAccessTokenCreate
	return result.CustomerAccessToken, result.CustomerUserErrors, nil
}

// FetchCustomer loads the profile the token belongs to; nil means Shopify
// did not recognise the token.
func (s *Service) FetchCustomer(ctx context.Context, accessToken string) (*models.Customer, error) {
	data, err := s.Request(ctx, customerQuery, map[string]interface{}{
		"customerAccessToken": accessToken,
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Customer *models.Customer `json:"customer"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, models.NewUpstreamError("failed to decode customer", err)
	}

	return payload.Customer, nil
}

// CreateCustomer registers a new customer account
func (s *Service) CreateCustomer(ctx context.Context, input CustomerCreateInput) (*models.Customer, []models.UserError, error) {
	data, err := s.Request(ctx, customerCreateMutation, map[string]interface{}{
		"input": input,
	})
	if err != nil {
		return nil, nil, err
	}

	var payload struct {
		CustomerCreate struct {
			Customer           *models.Customer   `json:"customer"`
			CustomerUserErrors []models.UserError `json:"customerUserErrors"`
		} `json:"customerCreate"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, nil, models.NewUpstreamError("failed to decode customerCreate", err)
	}

	return payload.CustomerCreate.Customer, payload.CustomerCreate.CustomerUserErrors, nil
}

// DeleteAccessToken revokes a customer access token upstream
func (s *Service) DeleteAccessToken(ctx context.Context, accessToken string) error {
	_, err := s.Request(ctx, customerAccessTokenDeleteMutation, map[string]interface{}{
		"customerAccessToken": accessToken,
	})
	return err
}
