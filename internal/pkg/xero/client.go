package xero

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MattLoughlin/SubSync/internal/pkg/env"
)

const (
	defaultIdentityBaseURL   = "https://identity.xero.com"
	defaultConnectionsURL    = "https://api.xero.com/connections"
	defaultAppStoreBaseURL   = "https://api.xero.com/appstore/2.0"
	defaultAccountingBaseURL = "https://api.xero.com/api.xro/2.0"

	// Scope requested for the non-tenanted client-credentials token used by
	// App Store subscription and metered billing calls.
	appStoreScope = "marketplace.billing"
)

// Client talks to the Xero identity, connections, App Store and accounting
// APIs. It holds no token state; callers pass the access token per request.
type Client struct {
	ClientID     string
	ClientSecret string

	IdentityBaseURL   string
	ConnectionsURL    string
	AppStoreBaseURL   string
	AccountingBaseURL string

	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		ClientID:          strings.TrimSpace(env.GetEnv("XERO_CLIENT_ID", "")),
		ClientSecret:      strings.TrimSpace(env.GetEnv("XERO_CLIENT_SECRET", "")),
		IdentityBaseURL:   strings.TrimRight(env.GetEnv("XERO_IDENTITY_BASE_URL", defaultIdentityBaseURL), "/"),
		ConnectionsURL:    strings.TrimSpace(env.GetEnv("XERO_CONNECTIONS_URL", defaultConnectionsURL)),
		AppStoreBaseURL:   strings.TrimRight(env.GetEnv("XERO_APPSTORE_BASE_URL", defaultAppStoreBaseURL), "/"),
		AccountingBaseURL: strings.TrimRight(env.GetEnv("XERO_ACCOUNTING_BASE_URL", defaultAccountingBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// RequestClientCredentialsToken acquires a fresh non-tenanted access token.
// The returned token carries no refresh token and expires after 30 minutes,
// so callers must re-acquire it before each App Store call sequence.
func (c *Client) RequestClientCredentialsToken(ctx context.Context) (*TokenResponse, error) {
	if strings.TrimSpace(c.ClientID) == "" || strings.TrimSpace(c.ClientSecret) == "" {
		return nil, errors.New("XERO_CLIENT_ID/XERO_CLIENT_SECRET are not configured")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", appStoreScope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.IdentityBaseURL+"/connect/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.ClientID, c.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("xero client credentials grant failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out TokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return nil, errors.New("xero token endpoint returned empty access_token")
	}
	return &out, nil
}

// GetConnections lists the tenants the given access token is connected to.
func (c *Client) GetConnections(ctx context.Context, accessToken string) ([]Connection, error) {
	body, err := c.get(ctx, c.ConnectionsURL, accessToken, "")
	if err != nil {
		return nil, err
	}

	var out []Connection
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrganisation fetches the organisation record for one tenant. Xero
// returns a single-element list; we unwrap it.
func (c *Client) GetOrganisation(ctx context.Context, accessToken, tenantID string) (*Organisation, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, errors.New("tenant id is required")
	}

	body, err := c.get(ctx, c.AccountingBaseURL+"/Organisation", accessToken, tenantID)
	if err != nil {
		return nil, err
	}

	var out organisationsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if len(out.Organisations) == 0 {
		return nil, errors.New("xero returned no organisation for tenant " + tenantID)
	}
	return &out.Organisations[0], nil
}

// GetSubscription fetches one App Store subscription. A 404 maps to
// (nil, nil): the subscription is absent, not an error.
func (c *Client) GetSubscription(ctx context.Context, accessToken, subscriptionID string) (*Subscription, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, errors.New("subscription id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AppStoreBaseURL+"/subscriptions/"+url.PathEscape(subscriptionID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("xero get subscription failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out Subscription
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUsageRecords lists usage records posted against a subscription.
func (c *Client) GetUsageRecords(ctx context.Context, accessToken, subscriptionID string) (*UsageRecordsList, error) {
	body, err := c.get(ctx, c.AppStoreBaseURL+"/subscriptions/"+url.PathEscape(subscriptionID)+"/usage-records", accessToken, "")
	if err != nil {
		return nil, err
	}

	var out UsageRecordsList
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PostUsageRecord submits metered usage for one subscription item.
func (c *Client) PostUsageRecord(ctx context.Context, accessToken, subscriptionID, subscriptionItemID string, record CreateUsageRecord) (*UsageRecord, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/subscriptions/%s/items/%s/usage-records",
		c.AppStoreBaseURL, url.PathEscape(subscriptionID), url.PathEscape(subscriptionItemID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("xero post usage record failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out UsageRecord
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, endpoint, accessToken, tenantID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	if tenantID != "" {
		req.Header.Set("xero-tenant-id", tenantID)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("xero request %s failed: status=%d body=%s", endpoint, resp.StatusCode, string(body))
	}
	return body, nil
}
