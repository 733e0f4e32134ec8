package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pragatibook/pragatibook-backend/internal/models"
)

// DatabaseStore implements Store on top of GORM/PostgreSQL
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// User operations

func (s *DatabaseStore) CreateUser(user *models.User) (*models.User, error) {
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *DatabaseStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) UpdateUserPassword(email, hashedPassword string) error {
	result := s.db.Model(&models.User{}).
		Where("email = ?", email).
		Update("password", hashedPassword)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Bill operations

func (s *DatabaseStore) CreateBill(bill *models.Bill) (*models.Bill, error) {
	if err := s.db.Create(bill).Error; err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *DatabaseStore) GetBill(id, userID uint) (*models.Bill, error) {
	var bill models.Bill
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

func (s *DatabaseStore) GetBillsByUser(userID uint) ([]*models.Bill, error) {
	var bills []*models.Bill
	err := s.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (s *DatabaseStore) UpdateBill(bill *models.Bill) error {
	result := s.db.Model(&models.Bill{}).
		Where("id = ? AND user_id = ?", bill.ID, bill.UserID).
		Updates(map[string]interface{}{
			"customer_name": bill.CustomerName,
			"description":   bill.Description,
			"date":          bill.Date,
			"items":         bill.Items,
			"total":         bill.Total,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DatabaseStore) DeleteBill(id, userID uint) error {
	// Hard delete; bills have no soft-delete semantics
	result := s.db.Unscoped().Where("id = ? AND user_id = ?", id, userID).Delete(&models.Bill{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// OTP operations

func (s *DatabaseStore) CreateOTP(otp *models.OTP) (*models.OTP, error) {
	if err := s.db.Create(otp).Error; err != nil {
		return nil, err
	}
	return otp, nil
}

func (s *DatabaseStore) DeleteOTPsByEmail(email string) error {
	return s.db.Unscoped().Where("email = ?", email).Delete(&models.OTP{}).Error
}

func (s *DatabaseStore) GetUsableOTP(email, code string, now time.Time) (*models.OTP, error) {
	var otp models.OTP
	err := s.db.Where("email = ? AND code = ? AND verified = ? AND expires_at > ?",
		email, code, false, now).First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &otp, nil
}

func (s *DatabaseStore) MarkOTPVerified(id uint) error {
	result := s.db.Model(&models.OTP{}).
		Where("id = ?", id).
		Update("verified", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DatabaseStore) GetVerifiedOTP(email string, now time.Time) (*models.OTP, error) {
	var otp models.OTP
	err := s.db.Where("email = ? AND verified = ? AND expires_at > ?",
		email, true, now).First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &otp, nil
}

func (s *DatabaseStore) DeleteVerifiedOTPs(email string) error {
	return s.db.Unscoped().
		Where("email = ? AND verified = ?", email, true).
		Delete(&models.OTP{}).Error
}

func (s *DatabaseStore) DeleteExpiredOTPs(now time.Time) error {
	return s.db.Unscoped().Where("expires_at <= ?", now).Delete(&models.OTP{}).Error
}

// Template settings operations

func (s *DatabaseStore) GetTemplateSettings(userID uint) (*models.TemplateSettings, error) {
	var settings models.TemplateSettings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (s *DatabaseStore) SaveTemplateSettings(settings *models.TemplateSettings) (*models.TemplateSettings, error) {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}
