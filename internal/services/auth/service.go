package auth

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lumiere-skin/storefront/internal/domain/storefront/models"
	"github.com/lumiere-skin/storefront/internal/infrastructure/shopify"
	"github.com/rs/zerolog/log"
)

// Upstream is the subset of the Storefront client the gateway needs
type Upstream interface {
	Configured() bool
	CreateAccessToken(ctx context.Context, email, password string) (*models.CustomerAccessToken, []models.UserError, error)
	FetchCustomer(ctx context.Context, accessToken string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, input shopify.CustomerCreateInput) (*models.Customer, []models.UserError, error)
	DeleteAccessToken(ctx context.Context, accessToken string) error
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignupInput struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// Identity is the outcome of a successful login. The token is meant for the
// session store only.
type Identity struct {
	Token    models.CustomerAccessToken
	Customer models.Customer
}

// Status is what /me reports: either logged in with a customer or logged out
type Status struct {
	LoggedIn bool             `json:"loggedIn"`
	Customer *models.Customer `json:"customer,omitempty"`
}

func LoggedIn(customer models.Customer) Status {
	return Status{LoggedIn: true, Customer: &customer}
}

func LoggedOut() Status {
	return Status{LoggedIn: false}
}

type Service struct {
	upstream Upstream
	validate *validator.Validate
	now      func() time.Time
}

func NewService(upstream Upstream) *Service {
	return &Service{
		upstream: upstream,
		// a single instance of Validate caches struct info
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// Login exchanges credentials for a customer access token and loads the
// profile it belongs to. It makes exactly two upstream calls, token first.
func (s *Service) Login(ctx context.Context, input LoginInput) (*Identity, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, models.NewValidationError("Email and password are required")
	}

	if !s.upstream.Configured() {
		return nil, shopify.ErrNotConfigured
	}

	return s.authenticate(ctx, input.Email, input.Password)
}

// Signup creates the customer and then logs them in with the same
// credentials.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*Identity, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, models.NewValidationError("All fields are required")
	}

	if !s.upstream.Configured() {
		return nil, shopify.ErrNotConfigured
	}

	_, userErrors, err := s.upstream.CreateCustomer(ctx, shopify.CustomerCreateInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		return nil, upstreamFailure(err, "Signup failed", "customerCreate")
	}
	if len(userErrors) > 0 {
		log.Info().Str("code", userErrors[0].Code).Msg("Shopify rejected customer creation")
		return nil, models.NewValidationError(userErrors[0].Message)
	}

	log.Info().Msg("Customer account created, logging in")
	return s.authenticate(ctx, input.Email, input.Password)
}

func (s *Service) authenticate(ctx context.Context, email, password string) (*Identity, error) {
	token, userErrors, err := s.upstream.CreateAccessToken(ctx, email, password)
	if err != nil {
		return nil, upstreamFailure(err, "Login failed", "customerAccessTokenCreate")
	}
	if len(userErrors) > 0 {
		log.Info().Str("code", userErrors[0].Code).Msg("Shopify rejected customer credentials")
		return nil, models.NewAuthError(userErrors[0].Message)
	}
	if token == nil || token.AccessToken == "" {
		log.Error().Msg("customerAccessTokenCreate returned neither a token nor user errors")
		return nil, models.NewServerError("Failed to create access token", nil)
	}

	customer, err := s.upstream.FetchCustomer(ctx, token.AccessToken)
	if err != nil {
		return nil, upstreamFailure(err, "Login failed", "customer")
	}
	if customer == nil {
		return nil, models.NewAuthError("Invalid customer access token")
	}

	log.Info().Str("customer_id", customer.ID).Msg("Customer authenticated")
	return &Identity{Token: *token, Customer: *customer}, nil
}

// Me reports the login state of a session. It never fails: anything that
// goes wrong while reading the session is reported as logged out.
func (s *Service) Me(sess *models.Session) (status Status) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered while reading session state")
			status = LoggedOut()
		}
	}()

	if _, ok := sess.AccessToken(s.now()); !ok || sess.Customer == nil {
		return LoggedOut()
	}

	return LoggedIn(*sess.Customer)
}

// Logout revokes the session's customer token upstream. Revocation is best
// effort; failures are only logged.
func (s *Service) Logout(ctx context.Context, sess *models.Session) {
	token, ok := sess.AccessToken(s.now())
	if !ok || !s.upstream.Configured() {
		return
	}

	if err := s.upstream.DeleteAccessToken(ctx, token); err != nil {
		log.Warn().Err(err).Msg("Failed to revoke customer access token")
	}
}

// upstreamFailure keeps configuration errors as they are and collapses
// anything else into a generic server error; the detail goes to the log.
func upstreamFailure(err error, message, operation string) error {
	if models.IsKind(err, models.KindConfiguration) {
		return err
	}

	log.Error().Err(err).Str("operation", operation).Msg("Shopify request failed")
	return models.NewServerError(message, err)
}
