package xero

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// AppStoreService performs App Store API calls with a freshly acquired
// non-tenanted token. The token expires after 30 minutes, so every call
// sequence (re)acquires it through the client-credentials grant before the
// actual request and keeps it in the store only for diagnostics and follow-up
// calls inside the same pass.
type AppStoreService struct {
	client *Client
	tokens NonTenantedTokenStore
}

func NewAppStoreService(client *Client, tokens NonTenantedTokenStore) *AppStoreService {
	return &AppStoreService{client: client, tokens: tokens}
}

func NewAppStoreServiceFromEnv() *AppStoreService {
	return NewAppStoreService(NewClientFromEnv(), NewCacheTokenStore())
}

// FetchSubscription returns the current remote subscription state, or
// (nil, nil) when the subscription does not exist.
func (s *AppStoreService) FetchSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	token, err := s.acquireToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.GetSubscription(ctx, token, subscriptionID)
}

// FetchUsageRecords lists the usage records for a subscription.
func (s *AppStoreService) FetchUsageRecords(ctx context.Context, subscriptionID string) (*UsageRecordsList, error) {
	token, err := s.acquireToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.GetUsageRecords(ctx, token, subscriptionID)
}

// SubmitUsage posts a metered usage quantity against one subscription item.
func (s *AppStoreService) SubmitUsage(ctx context.Context, subscriptionID, subscriptionItemID string, quantity int) (*UsageRecord, error) {
	token, err := s.acquireToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.PostUsageRecord(ctx, token, subscriptionID, subscriptionItemID, CreateUsageRecord{
		Quantity:  quantity,
		Timestamp: time.Now().UTC(),
	})
}

func (s *AppStoreService) acquireToken(ctx context.Context) (string, error) {
	resp, err := s.client.RequestClientCredentialsToken(ctx)
	if err != nil {
		return "", fmt.Errorf("acquire non-tenanted token: %w", err)
	}

	ttl := time.Duration(resp.ExpiresIn) * time.Second
	if err := s.tokens.Store(resp.AccessToken, ttl); err != nil {
		// The token is still usable for this pass; storage is best effort.
		log.Warnf("[Xero] Could not store non-tenanted token: %v", err)
	}
	return resp.AccessToken, nil
}
