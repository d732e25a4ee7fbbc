package storefront

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// User is who the shopper is to the storefront. A guest user is local only:
// it has no customer record and no session behind it.
type User struct {
	Email             string
	FirstName         string
	LastName          string
	Customer          *Customer
	IsShopifyCustomer bool
}

// LoginOrGuest logs in, or hands back a guest user when the gateway or
// Shopify is unavailable. Rejected credentials are still returned as errors.
func (c *Client) LoginOrGuest(ctx context.Context, email, password string) (*User, error) {
	customer, err := c.Login(ctx, email, password)
	if err == nil {
		return customerUser(customer), nil
	}
	if !unavailable(err) {
		return nil, err
	}

	log.Warn().Err(err).Msg("Login unavailable, continuing as guest")
	return &User{Email: email}, nil
}

// SignupOrGuest is LoginOrGuest for account creation
func (c *Client) SignupOrGuest(ctx context.Context, input SignupInput) (*User, error) {
	customer, err := c.Signup(ctx, input)
	if err == nil {
		return customerUser(customer), nil
	}
	if !unavailable(err) {
		return nil, err
	}

	log.Warn().Err(err).Msg("Signup unavailable, continuing as guest")
	return &User{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}, nil
}

func customerUser(customer *Customer) *User {
	return &User{
		Email:             customer.Email,
		FirstName:         customer.FirstName,
		LastName:          customer.LastName,
		Customer:          customer,
		IsShopifyCustomer: true,
	}
}

// unavailable reports whether err means the identity provider could not be
// reached, as opposed to rejecting the request
func unavailable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return !errors.Is(err, context.Canceled)
}
