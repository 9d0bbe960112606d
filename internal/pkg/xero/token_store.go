package xero

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MattLoughlin/SubSync/internal/pkg/cache"
)

const nonTenantedTokenKey = "xero:non_tenanted_token"

// ErrNoToken is returned when no non-tenanted token is currently stored.
var ErrNoToken = errors.New("no non-tenanted token stored")

// NonTenantedTokenStore holds the short-lived client-credentials access token
// used for App Store calls. The token is not scoped to any tenant and expires
// after 30 minutes, so it is kept with a matching TTL and callers re-acquire
// it rather than trusting a stored value.
type NonTenantedTokenStore interface {
	Store(accessToken string, ttl time.Duration) error
	Get() (string, error)
	Destroy() error
	Exists() bool
}

type cacheTokenStore struct{}

// NewCacheTokenStore returns a token store backed by the shared Redis cache.
func NewCacheTokenStore() NonTenantedTokenStore {
	return &cacheTokenStore{}
}

func (s *cacheTokenStore) Store(accessToken string, ttl time.Duration) error {
	if accessToken == "" {
		return errors.New("access token cannot be empty")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return cache.Set(nonTenantedTokenKey, accessToken, ttl)
}

func (s *cacheTokenStore) Get() (string, error) {
	token, err := cache.Get(nonTenantedTokenKey)
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *cacheTokenStore) Destroy() error {
	return cache.Delete(nonTenantedTokenKey)
}

func (s *cacheTokenStore) Exists() bool {
	_, err := s.Get()
	return err == nil
}
