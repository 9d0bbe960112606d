package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	gothfiber "github.com/shareed2k/goth_fiber"
	"github.com/sujit-baniya/flash"

	"github.com/MattLoughlin/SubSync/app/models"
	"github.com/MattLoughlin/SubSync/app/repository"
	"github.com/MattLoughlin/SubSync/internal/pkg/oauth"
	"github.com/MattLoughlin/SubSync/internal/pkg/session"
	"github.com/MattLoughlin/SubSync/internal/pkg/usercontext"
	"github.com/MattLoughlin/SubSync/internal/pkg/xero"
)

var signUpXeroClient *xero.Client

// InitializeSignUpController wires the Xero API client used to resolve the
// organisation behind a freshly authorised connection.
func InitializeSignUpController(client *xero.Client) {
	signUpXeroClient = client
}

// HandleSignUpStart kicks off the "Sign Up with Xero" flow. goth_fiber reads
// the provider from the route param, so we bounce to the provider route.
func HandleSignUpStart(c *fiber.Ctx) error {
	return c.Redirect("/auth/" + oauth.ProviderName)
}

// HandleSignUpCallback completes the provider flow, resolves the authorised
// tenant and organisation, and records the sign-up.
func HandleSignUpCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		log.Errorf("[SignUp] OAuth completion failed: %v", err)
		fm := fiber.Map{"type": "error", "message": "Sign up with Xero failed. Please try again."}
		return flash.WithError(c, fm).Redirect("/")
	}

	ctx := c.UserContext()

	connections, err := signUpXeroClient.GetConnections(ctx, u.AccessToken)
	if err != nil {
		log.Errorf("[SignUp] Could not load connections: %v", err)
		fm := fiber.Map{"type": "error", "message": "Could not read your Xero connections."}
		return flash.WithError(c, fm).Redirect("/")
	}
	if len(connections) == 0 {
		fm := fiber.Map{"type": "error", "message": "No Xero organisation was connected during sign up."}
		return flash.WithError(c, fm).Redirect("/")
	}
	conn := connections[0]

	user := models.SignUpUser{
		XeroUserID:           u.UserID,
		Email:                u.Email,
		GivenName:            u.FirstName,
		FamilyName:           u.LastName,
		TenantID:             conn.TenantID,
		TenantName:           conn.TenantName,
		AuthEventID:          conn.AuthEventID,
		ConnectionCreatedUTC: conn.CreatedDateUTC,
		AccountCreatedAt:     time.Now().UTC(),
	}

	org, err := signUpXeroClient.GetOrganisation(ctx, u.AccessToken, conn.TenantID)
	if err != nil {
		// The sign-up still counts without organisation detail.
		log.Warnf("[SignUp] Could not load organisation for tenant %s: %v", conn.TenantID, err)
	} else if org != nil {
		if org.Name != "" {
			user.TenantName = org.Name
		}
		user.TenantShortCode = org.ShortCode
		user.TenantCountryCode = org.CountryCode
	}

	if err := user.Validate(); err != nil {
		log.Errorf("[SignUp] Invalid sign-up data for user %s: %v", u.UserID, err)
		fm := fiber.Map{"type": "error", "message": "Xero returned invalid account data."}
		return flash.WithError(c, fm).Redirect("/")
	}

	repo := repository.GetGlobalRepositories().SignUpUser
	if err := repo.Upsert(&user); err != nil {
		log.Errorf("[SignUp] Could not store sign-up for user %s: %v", u.UserID, err)
		fm := fiber.Map{"type": "error", "message": "Could not save your sign-up."}
		return flash.WithError(c, fm).Redirect("/")
	}

	session.SetSessionValue(c, usercontext.SessionXeroUserID, user.XeroUserID)
	session.SetSessionValue(c, usercontext.SessionUserName, fmt.Sprintf("%s %s", user.GivenName, user.FamilyName))
	session.SetSessionValue(c, usercontext.SessionTenantID, user.TenantID)
	session.SetSessionValue(c, usercontext.SessionTenantName, user.TenantName)

	log.Infof("[SignUp] User %s signed up with tenant %s", user.XeroUserID, user.TenantID)

	fm := fiber.Map{"type": "success", "message": fmt.Sprintf("Welcome, %s! Your Xero account is connected.", user.GivenName)}
	return flash.WithSuccess(c, fm).Redirect("/users")
}

// HandleSignUpLogout clears the provider session and the app session values.
func HandleSignUpLogout(c *fiber.Ctx) error {
	if err := gothfiber.Logout(c); err != nil {
		log.Warnf("[SignUp] Provider logout failed: %v", err)
	}
	session.SetSessionValue(c, usercontext.SessionXeroUserID, "")
	session.SetSessionValue(c, usercontext.SessionUserName, "")
	session.SetSessionValue(c, usercontext.SessionTenantID, "")
	session.SetSessionValue(c, usercontext.SessionTenantName, "")
	return c.Redirect("/")
}

// HandleUsersList shows everyone who signed up through the referral flow.
func HandleUsersList(c *fiber.Ctx) error {
	repo := repository.GetGlobalRepositories().SignUpUser
	users, err := repo.List()
	if err != nil {
		log.Errorf("[SignUp] Could not list users: %v", err)
		fm := fiber.Map{"type": "error", "message": "Could not load the user list."}
		return flash.WithError(c, fm).Redirect("/")
	}

	return renderPage(c, "referral_users", "Referral Users", fiber.Map{
		"Users":    users,
		"Provider": oauth.ProviderName,
	})
}
