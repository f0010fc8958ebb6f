package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/labstack/echo/v4"

	internalErrs "github.com/wardbook/records/errors"
	"github.com/wardbook/records/users"
)

var (
	ErrUnauthenticated = internalErrs.New(internalErrs.Unauthorized, "Not authenticated")

	AuthContextKey              = AuthKey("auth")
	DefaultCacheSize            = 10000           // Cache up to 10000 tokens
	DefaultCacheEntryExpiration = 5 * time.Minute // Cache tokens for 5 minutes
)

type AuthKey string

// Auth is the authenticated subject of a request
type Auth struct {
	User   *users.User
	Claims *Claims
}

func GetAuthData(ctx context.Context) *Auth {
	if auth, ok := ctx.Value(AuthContextKey).(*Auth); ok {
		return auth
	}

	return nil
}

func GetUser(ctx context.Context) *users.User {
	if auth := GetAuthData(ctx); auth != nil {
		return auth.User
	}
	return nil
}

func SetAuthData(ec echo.Context, auth *Auth) {
	ctx := context.WithValue(ec.Request().Context(), AuthContextKey, auth)
	ec.SetRequest(ec.Request().WithContext(ctx))
}

// Authenticator resolves a session token to the user it was issued for. It is
// shared by the api middleware, the edge guard and the identity service.
type Authenticator struct {
	verifier TokenVerifier
	users    users.Service
}

func NewAuthenticator(verifier TokenVerifier, usersService users.Service) *Authenticator {
	return &Authenticator{
		verifier: verifier,
		users:    usersService,
	}
}

// Authenticate returns ErrUnauthenticated when the token is invalid, expired or
// belongs to a user that no longer exists
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Auth, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := a.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := a.users.Get(ctx, claims.UserId())
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrUnauthenticated
	} else if err != nil {
		return nil, err
	}

	return &Auth{User: user, Claims: claims}, nil
}

type CacheEntry struct {
	token  string
	claims *Claims
	expiry time.Time
}

func (c CacheEntry) IsExpired() bool {
	return time.Now().After(c.expiry)
}

// CachingTokenVerifier skips signature verification of recently seen tokens
type CachingTokenVerifier struct {
	delegate   TokenVerifier
	expiration time.Duration
	lru        *simplelru.LRU
	mu         *sync.Mutex
}

var _ TokenVerifier = &CachingTokenVerifier{}

func NewCachingTokenVerifier(size int, expiration time.Duration, delegate TokenVerifier) (*CachingTokenVerifier, error) {
	var onEvict simplelru.EvictCallback
	lru, err := simplelru.NewLRU(size, onEvict)
	if err != nil {
		return nil, err
	}

	return &CachingTokenVerifier{
		delegate:   delegate,
		expiration: expiration,
		lru:        lru,
		mu:         &sync.Mutex{},
	}, nil
}

func NewTokenVerifier(manager *TokenManager) (TokenVerifier, error) {
	return NewCachingTokenVerifier(DefaultCacheSize, DefaultCacheEntryExpiration, manager)
}

func (c *CachingTokenVerifier) Verify(token string) (*Claims, error) {
	if entry := c.getCachedEntry(token); entry != nil {
		return entry.claims, nil
	}

	claims, err := c.delegate.Verify(token)
	if err != nil {
		return nil, err
	}

	// Never keep a token around longer than it is valid
	expiry := time.Now().Add(c.expiration)
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(expiry) {
		expiry = claims.ExpiresAt.Time
	}
	c.setCacheEntry(CacheEntry{
		token:  token,
		claims: claims,
		expiry: expiry,
	})

	return claims, nil
}

func (c *CachingTokenVerifier) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

func (c *CachingTokenVerifier) getCachedEntry(token string) *CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.lru.Get(token); ok {
		entry := e.(CacheEntry)
		if entry.IsExpired() {
			c.lru.Remove(token)
			return nil
		}
		return &entry
	}

	return nil
}

func (c *CachingTokenVerifier) setCacheEntry(entry CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.lru.Add(entry.token, entry)
}
