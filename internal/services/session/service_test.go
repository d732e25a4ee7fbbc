package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lumiere-skin/storefront/internal/config"
	"github.com/lumiere-skin/storefront/internal/domain/storefront/models"
	"github.com/lumiere-skin/storefront/internal/infrastructure/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*MemoryStore
	deleteErr error
	getErr    error
}

func (f *failingStore) Get(ctx context.Context, id string) (*models.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryStore.Get(ctx, id)
}

func (f *failingStore) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStore.Delete(ctx, id)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == config.GetSessionCookieName() {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", config.GetSessionCookieName())
	return nil
}

func requestWithCookie(cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if cookie != nil {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	return req
}

func establish(t *testing.T, svc *Service, r *http.Request) (*models.Session, *http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	sess, err := svc.Establish(context.Background(), rec, r,
		&models.CustomerAccessToken{AccessToken: "secret-token", ExpiresAt: time.Now().Add(24 * time.Hour)},
		&models.Customer{ID: "gid://shopify/Customer/1", Email: "jane@example.com"},
	)
	require.NoError(t, err)
	return sess, sessionCookie(t, rec)
}

func TestEstablishAndLoad(t *testing.T) {
	defer config.SetSessionSecret([]byte("test-session-secret"))()
	svc := NewServiceWithStore(NewMemoryStore())

	sess, cookie := establish(t, svc, requestWithCookie(nil))

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(config.SessionLifetime.Seconds()), cookie.MaxAge)
	assert.NotContains(t, cookie.Value, "secret-token")

	loaded, err := svc.Load(requestWithCookie(cookie))
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "secret-token", loaded.CustomerAccessToken)
	assert.Equal(t, "jane@example.com", loaded.Customer.Email)
}

func TestLoadWithoutValidCookie(t *testing.T) {
	defer config.SetSessionSecret([]byte("test-session-secret"))()
	svc := NewServiceWithStore(NewMemoryStore())
	_, cookie := establish(t, svc, requestWithCookie(nil))

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"garbage cookie", &http.Cookie{Name: config.GetSessionCookieName(), Value: "not-a-jwt"}},
		{"tampered cookie", &http.Cookie{Name: config.GetSessionCookieName(), Value: cookie.Value + "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded, err := svc.Load(requestWithCookie(tt.cookie))
			require.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}

	t.Run("cookie signed with another secret", func(t *testing.T) {
		restore := config.SetSessionSecret([]byte("rotated-secret"))
		defer restore()

		loaded, err := svc.Load(requestWithCookie(cookie))
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})
}

func TestSessionExpiry(t *testing.T) {
	defer config.SetSessionSecret([]byte("test-session-secret"))()
	store := NewMemoryStore()
	svc := NewServiceWithStore(store)

	now := time.Now()
	svc.now = func() time.Time { return now }
	_, cookie := establish(t, svc, requestWithCookie(nil))

	later := now.Add(config.SessionLifetime + time.Minute)
	svc.now = func() time.Time { return later }
	store.now = func() time.Time { return later }

	loaded, err := svc.Load(requestWithCookie(cookie))
	require.NoError(t, err)
	assert.Nil(t, loaded, "expired session must behave as logged out")
}

func TestEstablishRotatesSessionID(t *testing.T) {
	defer config.SetSessionSecret([]byte("test-session-secret"))()
	store := NewMemoryStore()
	svc := NewServiceWithStore(store)

	first, firstCookie := establish(t, svc, requestWithCookie(nil))
	second, secondCookie := establish(t, svc, requestWithCookie(firstCookie))

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, store.Len())

	stale, err := svc.Load(requestWithCookie(firstCookie))
	require.NoError(t, err)
	assert.Nil(t, stale)

	current, err := svc.Load(requestWithCookie(secondCookie))
	require.NoError(t, err)
	assert.NotNil(t, current)
}

func TestDestroy(t *testing.T) {
	defer config.SetSessionSecret([]byte("test-session-secret"))()

	t.Run("removes session and clears cookie", func(t *testing.T) {
		svc := NewServiceWithStore(NewMemoryStore())
		_, cookie := establish(t, svc, requestWithCookie(nil))

		rec := httptest.NewRecorder()
		require.NoError(t, svc.Destroy(context.Background(), rec, requestWithCookie(cookie)))

		cleared := sessionCookie(t, rec)
		assert.Equal(t, "", cleared.Value)
		assert.True(t, cleared.MaxAge < 0)

		loaded, err := svc.Load(requestWithCookie(cookie))
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("without a session is a no-op", func(t *testing.T) {
		svc := NewServiceWithStore(NewMemoryStore())
		rec := httptest.NewRecorder()
		assert.NoError(t, svc.Destroy(context.Background(), rec, requestWithCookie(nil)))
	})

	t.Run("store failure is returned", func(t *testing.T) {
		storeErr := errors.New("store unavailable")
		store := &failingStore{MemoryStore: NewMemoryStore()}
		svc := NewServiceWithStore(store)
		_, cookie := establish(t, svc, requestWithCookie(nil))

		store.deleteErr = storeErr
		rec := httptest.NewRecorder()
		err := svc.Destroy(context.Background(), rec, requestWithCookie(cookie))
		assert.ErrorIs(t, err, storeErr)
		assert.Equal(t, "", sessionCookie(t, rec).Value)
	})
}

func TestLoadStoreFailure(t *testing.T) {
	defer config.SetSessionSecret([]byte("test-session-secret"))()
	store := &failingStore{MemoryStore: NewMemoryStore()}
	svc := NewServiceWithStore(store)
	_, cookie := establish(t, svc, requestWithCookie(nil))

	store.getErr = errors.New("boom")
	_, err := svc.Load(requestWithCookie(cookie))
	assert.Error(t, err)
}

func TestCookiePolicy(t *testing.T) {
	defer config.SetSessionSecret([]byte("test-session-secret"))()

	tests := []struct {
		name       string
		production bool
		secure     bool
		sameSite   http.SameSite
	}{
		{"development", false, false, http.SameSiteLaxMode},
		{"production", true, true, http.SameSiteNoneMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.production {
				t.Setenv("NODE_ENV", "production")
			} else {
				t.Setenv("NODE_ENV", "development")
				t.Setenv("ENVIRONMENT", "development")
			}

			svc := NewServiceWithStore(NewMemoryStore())
			_, cookie := establish(t, svc, requestWithCookie(nil))

			assert.Equal(t, tt.secure, cookie.Secure)
			assert.Equal(t, tt.sameSite, cookie.SameSite)
			assert.True(t, cookie.HttpOnly)
		})
	}
}

func TestNewServiceStoreSelection(t *testing.T) {
	t.Run("memory without redis", func(t *testing.T) {
		svc := NewService(nil)
		_, ok := svc.store.(*MemoryStore)
		assert.True(t, ok)
	})

	t.Run("redis when reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		redisService := redis.NewService(mr.Addr(), "")
		require.NotNil(t, redisService)
		defer redisService.Close()

		svc := NewService(redisService)
		_, ok := svc.store.(*RedisStore)
		assert.True(t, ok)
	})
}
