package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lumiere-skin/storefront/internal/config"
	"github.com/lumiere-skin/storefront/internal/domain/storefront/models"
	"github.com/lumiere-skin/storefront/internal/infrastructure/redis"
	"github.com/rs/zerolog/log"
)

// cookieClaims is the signed payload of the session cookie. It carries only
// the opaque session id; everything else stays in the store.
type cookieClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

type Service struct {
	store    Store
	lifetime time.Duration
	secure   bool
	now      func() time.Time
}

// NewService picks the Redis store when a reachable Redis service is given
// and falls back to process memory otherwise.
func NewService(redisService *redis.Service) *Service {
	var store Store
	if redisService != nil {
		if err := redisService.Ping(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable - keeping sessions in memory")
			store = NewMemoryStore()
		} else {
			log.Info().Msg("Sessions stored in Redis")
			store = NewRedisStore(redisService)
		}
	} else {
		store = NewMemoryStore()
	}

	return NewServiceWithStore(store)
}

func NewServiceWithStore(store Store) *Service {
	return &Service{
		store:    store,
		lifetime: config.SessionLifetime,
		secure:   config.IsProduction(),
		now:      time.Now,
	}
}

// Load returns the session referenced by the request cookie, or nil when
// there is none, the cookie does not verify, or the session expired.
func (s *Service) Load(r *http.Request) (*models.Session, error) {
	sessionID, ok := s.sessionID(r)
	if !ok {
		return nil, nil
	}

	sess, err := s.store.Get(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Expired(s.now()) {
		return nil, nil
	}

	return sess, nil
}

// Establish stores a freshly authenticated session and issues its cookie.
// A new id is generated on every login and the previous session, if any, is
// dropped, so a pre-login cookie can never be promoted. Two logins racing on
// one browser both succeed; whichever cookie the browser keeps last wins.
func (s *Service) Establish(ctx context.Context, w http.ResponseWriter, r *http.Request, token *models.CustomerAccessToken, customer *models.Customer) (*models.Session, error) {
	now := s.now()
	sess := &models.Session{
		ID:        uuid.New().String(),
		Customer:  customer,
		CreatedAt: now,
		ExpiresAt: now.Add(s.lifetime),
	}
	if token != nil {
		sess.CustomerAccessToken = token.AccessToken
		sess.TokenExpiresAt = token.ExpiresAt
	}

	signed, err := s.sign(sess)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, sess.ID, sess); err != nil {
		return nil, err
	}

	if previousID, ok := s.sessionID(r); ok && previousID != sess.ID {
		if err := s.store.Delete(ctx, previousID); err != nil {
			log.Warn().Err(err).Msg("Failed to drop previous session")
		}
	}

	s.setCookie(w, signed, int(s.lifetime.Seconds()))
	return sess, nil
}

// Destroy removes the session from the store and clears the cookie. The
// cookie is cleared even when the store fails; the store error is returned.
func (s *Service) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if sessionID, ok := s.sessionID(r); ok {
		err = s.store.Delete(ctx, sessionID)
	}

	s.setCookie(w, "", -1)
	return err
}

func (s *Service) sign(sess *models.Session) (string, error) {
	claims := &cookieClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ID:        sess.ID,
		},
		SessionID: sess.ID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.GetSessionSecret())
}

func (s *Service) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(config.GetSessionCookieName())
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims := &cookieClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return config.GetSessionSecret(), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug().Err(err).Msg("Ignoring session cookie that failed verification")
		}
		return "", false
	}

	if !token.Valid || claims.SessionID == "" {
		return "", false
	}

	return claims.SessionID, true
}

func (s *Service) setCookie(w http.ResponseWriter, value string, maxAge int) {
	cookie := &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
	}

	// SameSite=None requires Secure, so development falls back to Lax
	if s.secure {
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}
