package oauth

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/openidConnect"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/MattLoughlin/SubSync/internal/pkg/cache"
	"github.com/MattLoughlin/SubSync/internal/pkg/env"
)

// ProviderName is the goth provider key used in the /auth/:provider routes.
const ProviderName = "openid-connect"

const defaultDiscoveryURL = "https://identity.xero.com/.well-known/openid-configuration"

// Scopes requested for the Sign Up with Xero flow. offline_access yields a
// refresh token; accounting.settings allows the organisation lookup that
// fills the tenant short code and country code.
const signUpScopes = "openid profile email accounting.settings offline_access"

// Setup initializes the Xero OIDC provider and the OAuth session store based
// on environment variables. It is safe to call multiple times; the provider
// will just be re-registered.
func Setup() {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}

	provider, err := openidConnect.New(
		env.GetEnv("XERO_CLIENT_ID", ""),
		env.GetEnv("XERO_CLIENT_SECRET", ""),
		base+"/auth/"+ProviderName+"/callback",
		env.GetEnv("XERO_DISCOVERY_URL", defaultDiscoveryURL),
		strings.Fields(env.GetEnv("XERO_SIGNUP_SCOPES", signUpScopes))...,
	)
	if err != nil {
		log.Errorf("[OAuth] Xero OIDC provider setup failed: %v", err)
		return
	}
	goth.UseProviders(provider)

	// OAuth state via Redis, using same connection as app sessions (separate DB)
	cacheClient := cache.GetClient()
	cacheOpts := cacheClient.Options()
	host, port := "127.0.0.1", 6379
	if cacheOpts != nil && cacheOpts.Addr != "" {
		if h, p, err := net.SplitHostPort(cacheOpts.Addr); err == nil {
			host = h
			if parsed, e := strconv.Atoi(p); e == nil {
				port = parsed
			}
		} else {
			host = cacheOpts.Addr
		}
	}

	gothfiber.SessionStore = session.New(session.Config{
		Storage: redisstorage.New(redisstorage.Config{
			Host:     host,
			Port:     port,
			Username: cacheOpts.Username,
			Password: cacheOpts.Password,
			Database: 2,
			Reset:    false,
		}),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     72 * time.Hour,
	})
}
