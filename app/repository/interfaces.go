package repository

import (
	"gorm.io/gorm"

	"github.com/MattLoughlin/SubSync/app/models"
)

// SignUpUserRepository defines the interface for referral-user database operations
type SignUpUserRepository interface {
	Upsert(user *models.SignUpUser) error
	GetByXeroUserID(xeroUserID string) (*models.SignUpUser, error)
	GetByTenantID(tenantID string) (*models.SignUpUser, error)
	GetBySubscriptionID(subscriptionID string) (*models.SignUpUser, error)
	List() ([]models.SignUpUser, error)
	Count() (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	SignUpUser SignUpUserRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		SignUpUser: NewSignUpUserRepository(db),
	}
}
