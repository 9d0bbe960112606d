package models

import (
	"testing"

	"github.com/google/uuid"
)

func validSignUpUser() SignUpUser {
	return SignUpUser{
		XeroUserID: "user-123",
		Email:      "jane@example.com",
		GivenName:  "Jane",
		FamilyName: "Doe",
		TenantID:   "7a1b4c9e-2f3d-4a5b-8c6d-0e1f2a3b4c5d",
		TenantName: "Demo Company (AU)",
	}
}

func TestSignUpUserValidate(t *testing.T) {
	user := validSignUpUser()
	if err := user.Validate(); err != nil {
		t.Fatalf("valid user failed validation: %v", err)
	}
}

func TestSignUpUserValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignUpUser)
	}{
		{name: "missing user id", mutate: func(u *SignUpUser) { u.XeroUserID = "" }},
		{name: "bad email", mutate: func(u *SignUpUser) { u.Email = "not-an-email" }},
		{name: "missing given name", mutate: func(u *SignUpUser) { u.GivenName = "" }},
		{name: "tenant id not a uuid", mutate: func(u *SignUpUser) { u.TenantID = "tenant-1" }},
		{name: "missing tenant name", mutate: func(u *SignUpUser) { u.TenantName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := validSignUpUser()
			tt.mutate(&user)
			if err := user.Validate(); err == nil {
				t.Fatalf("expected validation to fail")
			}
		})
	}
}

func TestSignUpUserSetters(t *testing.T) {
	tenantID := uuid.New()
	authEventID := uuid.New()

	var user SignUpUser
	user.SetTenantID(tenantID)
	user.SetAuthEventID(authEventID)

	if user.TenantID != tenantID.String() {
		t.Fatalf("TenantID = %q, want %q", user.TenantID, tenantID.String())
	}
	if user.AuthEventID != authEventID.String() {
		t.Fatalf("AuthEventID = %q, want %q", user.AuthEventID, authEventID.String())
	}
}

func TestSignUpUserHasSubscription(t *testing.T) {
	user := validSignUpUser()
	if user.HasSubscription() {
		t.Fatalf("expected no subscription before a webhook links one")
	}
	user.SubscriptionID = "sub-1"
	if !user.HasSubscription() {
		t.Fatalf("expected HasSubscription to be true once linked")
	}
}
