package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SignUpUser is one row per referral user/tenant that completed the Sign Up
// with Xero flow. The webhook synchronizer updates SubscriptionID and
// SubscriptionPlan on subscription lifecycle events; rows are never deleted
// by the pipeline.
type SignUpUser struct {
	// "sub" claim of the ID token
	XeroUserID string `gorm:"primaryKey;type:varchar(64);column:xero_user_id" json:"xero_user_id" validate:"required"`
	Email      string `gorm:"type:varchar(200);not null" json:"email" validate:"required,email"`
	GivenName  string `gorm:"type:varchar(150);not null" json:"given_name" validate:"required"`
	FamilyName string `gorm:"type:varchar(150);not null" json:"family_name" validate:"required"`

	// Tenant (Xero organisation) information captured at sign-up
	TenantID             string `gorm:"type:varchar(64);not null;index" json:"tenant_id" validate:"required,uuid4"`
	TenantName           string `gorm:"type:varchar(200);not null" json:"tenant_name" validate:"required"`
	AuthEventID          string `gorm:"type:varchar(64);not null" json:"auth_event_id"`
	ConnectionCreatedUTC string `gorm:"type:varchar(64);not null" json:"connection_created_utc"`

	// Short code used to build the App Store subscribe URL
	TenantShortCode string `gorm:"type:varchar(20)" json:"tenant_short_code"`
	// Country code gates the App Store subscription flow
	TenantCountryCode string `gorm:"type:varchar(8)" json:"tenant_country_code"`

	AccountCreatedAt time.Time `gorm:"type:timestamp" json:"account_created_at"`

	// Set from the SUBSCRIPTION webhook event's resource id
	SubscriptionID string `gorm:"type:varchar(64);index" json:"subscription_id"`
	// Derived from the Get Subscription API call
	SubscriptionPlan string `gorm:"type:varchar(255)" json:"subscription_plan"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *SignUpUser) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// SetTenantID stores a tenant UUID as its string form
func (u *SignUpUser) SetTenantID(tenantID uuid.UUID) {
	u.TenantID = tenantID.String()
}

// SetAuthEventID stores an auth event UUID as its string form
func (u *SignUpUser) SetAuthEventID(authEventID uuid.UUID) {
	u.AuthEventID = authEventID.String()
}

// HasSubscription reports whether a webhook has linked a subscription yet
func (u *SignUpUser) HasSubscription() bool {
	return u.SubscriptionID != ""
}
