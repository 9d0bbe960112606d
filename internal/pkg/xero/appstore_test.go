package xero

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokenStore struct {
	token      string
	ttl        time.Duration
	storeCalls int
}

func (m *memoryTokenStore) Store(accessToken string, ttl time.Duration) error {
	m.token = accessToken
	m.ttl = ttl
	m.storeCalls++
	return nil
}

func (m *memoryTokenStore) Get() (string, error) {
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *memoryTokenStore) Destroy() error {
	m.token = ""
	return nil
}

func (m *memoryTokenStore) Exists() bool {
	return m.token != ""
}

func TestAppStoreService_FetchSubscriptionAcquiresFreshToken(t *testing.T) {
	var tokenRequests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/connect/token":
			tokenRequests++
			_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "fresh-token", ExpiresIn: 1800})
		case "/appstore/2.0/subscriptions/sub-1":
			require.Equal(t, "Bearer fresh-token", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"id":"sub-1","status":"ACTIVE","plans":[{"name":"Gold","status":"ACTIVE"}]}`))
		default:
			t.Fatalf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	store := &memoryTokenStore{}
	svc := NewAppStoreService(testClient(srv), store)

	sub, err := svc.FetchSubscription(context.Background(), "sub-1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "sub-1", sub.ID)
	assert.Equal(t, StatusActive, sub.Status)

	// A second fetch must not trust the stored token.
	_, err = svc.FetchSubscription(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, 2, tokenRequests)
	assert.Equal(t, 2, store.storeCalls)
	assert.Equal(t, 30*time.Minute, store.ttl)
}

func TestAppStoreService_TokenFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	svc := NewAppStoreService(testClient(srv), &memoryTokenStore{})

	_, err := svc.FetchSubscription(context.Background(), "sub-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire non-tenanted token")
}
