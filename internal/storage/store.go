package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/pragatibook/pragatibook-backend/internal/models"
)

// ErrNotFound is returned when a lookup matches nothing. Owner-scoped bill
// lookups return it for both "no such bill" and "not your bill" so callers
// cannot tell the two apart.
var ErrNotFound = errors.New("record not found")

var (
	storeInstance Store
	storeOnce     sync.Once
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// User operations
	CreateUser(user *models.User) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateUserPassword(email, hashedPassword string) error

	// Bill operations. Every read and write is scoped by (id, userID).
	CreateBill(bill *models.Bill) (*models.Bill, error)
	GetBill(id, userID uint) (*models.Bill, error)
	GetBillsByUser(userID uint) ([]*models.Bill, error)
	UpdateBill(bill *models.Bill) error
	DeleteBill(id, userID uint) error

	// OTP operations
	CreateOTP(otp *models.OTP) (*models.OTP, error)
	DeleteOTPsByEmail(email string) error
	GetUsableOTP(email, code string, now time.Time) (*models.OTP, error)
	MarkOTPVerified(id uint) error
	GetVerifiedOTP(email string, now time.Time) (*models.OTP, error)
	DeleteVerifiedOTPs(email string) error
	DeleteExpiredOTPs(now time.Time) error

	// Template settings operations
	GetTemplateSettings(userID uint) (*models.TemplateSettings, error)
	SaveTemplateSettings(settings *models.TemplateSettings) (*models.TemplateSettings, error)
}
