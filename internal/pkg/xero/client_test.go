package xero

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(srv *httptest.Server) *Client {
	return &Client{
		ClientID:          "client-id",
		ClientSecret:      "client-secret",
		IdentityBaseURL:   srv.URL,
		ConnectionsURL:    srv.URL + "/connections",
		AppStoreBaseURL:   srv.URL + "/appstore/2.0",
		AccountingBaseURL: srv.URL + "/api.xro/2.0",
		HTTPClient:        srv.Client(),
	}
}

func TestRequestClientCredentialsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/connect/token" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Fatalf("missing or wrong basic auth")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Fatalf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("scope"); got != "marketplace.billing" {
			t.Fatalf("scope = %q", got)
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "fresh-token",
			ExpiresIn:   1800,
			TokenType:   "Bearer",
		})
	}))
	defer srv.Close()

	token, err := testClient(srv).RequestClientCredentialsToken(context.Background())
	if err != nil {
		t.Fatalf("RequestClientCredentialsToken() = %v", err)
	}
	if token.AccessToken != "fresh-token" || token.ExpiresIn != 1800 {
		t.Fatalf("unexpected token: %+v", token)
	}
}

func TestRequestClientCredentialsToken_MissingConfig(t *testing.T) {
	c := &Client{HTTPClient: http.DefaultClient}
	if _, err := c.RequestClientCredentialsToken(context.Background()); err == nil {
		t.Fatalf("expected error without client credentials")
	}
}

func TestGetSubscription_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	sub, err := testClient(srv).GetSubscription(context.Background(), "token", "gone")
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if sub != nil {
		t.Fatalf("expected nil subscription for 404, got %+v", sub)
	}
}

func TestGetSubscription_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := testClient(srv).GetSubscription(context.Background(), "token", "sub-1"); err == nil {
		t.Fatalf("expected error for a 500 response")
	}
}

func TestGetOrganisation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("xero-tenant-id"); got != "tenant-1" {
			t.Fatalf("xero-tenant-id = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Fatalf("Authorization = %q", got)
		}
		_, _ = w.Write([]byte(`{"Organisations":[{"Name":"Demo Company (NZ)","CountryCode":"NZ","ShortCode":"!abc12"}]}`))
	}))
	defer srv.Close()

	org, err := testClient(srv).GetOrganisation(context.Background(), "token", "tenant-1")
	if err != nil {
		t.Fatalf("GetOrganisation() = %v", err)
	}
	if org.Name != "Demo Company (NZ)" || org.CountryCode != "NZ" || org.ShortCode != "!abc12" {
		t.Fatalf("unexpected organisation: %+v", org)
	}
}

func TestGetConnections(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"conn-1","tenantId":"tenant-1","tenantType":"ORGANISATION","tenantName":"Demo","authEventId":"evt-1","createdDateUtc":"2026-08-01T00:00:00"}]`))
	}))
	defer srv.Close()

	conns, err := testClient(srv).GetConnections(context.Background(), "token")
	if err != nil {
		t.Fatalf("GetConnections() = %v", err)
	}
	if len(conns) != 1 || conns[0].TenantID != "tenant-1" {
		t.Fatalf("unexpected connections: %+v", conns)
	}
}
