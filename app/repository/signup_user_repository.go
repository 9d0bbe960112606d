package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MattLoughlin/SubSync/app/models"
)

// signUpUserRepository implements the SignUpUserRepository interface
type signUpUserRepository struct {
	db *gorm.DB
}

// NewSignUpUserRepository creates a new referral-user repository instance
func NewSignUpUserRepository(db *gorm.DB) SignUpUserRepository {
	return &signUpUserRepository{db: db}
}

// Upsert creates the user row or updates it in place, keyed by XeroUserID.
func (r *signUpUserRepository) Upsert(user *models.SignUpUser) error {
	if user == nil || strings.TrimSpace(user.XeroUserID) == "" {
		return errors.New("xero_user_id is required")
	}

	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "xero_user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"email",
			"given_name",
			"family_name",
			"tenant_id",
			"tenant_name",
			"auth_event_id",
			"connection_created_utc",
			"tenant_short_code",
			"tenant_country_code",
			"account_created_at",
			"subscription_id",
			"subscription_plan",
			"updated_at",
		}),
	}).Create(user).Error; err != nil {
		return err
	}

	// Ensure timestamps are populated after upsert.
	return r.db.Where("xero_user_id = ?", user.XeroUserID).First(user).Error
}

// GetByXeroUserID retrieves a user by the primary key
func (r *signUpUserRepository) GetByXeroUserID(xeroUserID string) (*models.SignUpUser, error) {
	if strings.TrimSpace(xeroUserID) == "" {
		return nil, errors.New("xero_user_id cannot be empty")
	}
	var user models.SignUpUser
	err := r.db.Where("xero_user_id = ?", xeroUserID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByTenantID retrieves a user by their tenant id
func (r *signUpUserRepository) GetByTenantID(tenantID string) (*models.SignUpUser, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, errors.New("tenant id cannot be empty")
	}
	var user models.SignUpUser
	err := r.db.Where("tenant_id = ?", tenantID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetBySubscriptionID retrieves a user by their subscription id
func (r *signUpUserRepository) GetBySubscriptionID(subscriptionID string) (*models.SignUpUser, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, errors.New("subscription id cannot be empty")
	}
	var user models.SignUpUser
	err := r.db.Where("subscription_id = ?", subscriptionID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves all referral users, newest sign-up first
func (r *signUpUserRepository) List() ([]models.SignUpUser, error) {
	var users []models.SignUpUser
	err := r.db.Order("account_created_at DESC").Find(&users).Error
	return users, err
}

// Count returns the total number of referral users
func (r *signUpUserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.SignUpUser{}).Count(&count).Error
	return count, err
}
