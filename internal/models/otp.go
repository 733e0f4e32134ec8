package models

import (
	"time"

	"gorm.io/gorm"
)

// OTP is a password-reset code bound to an email address. At most one live
// record exists per email: saving a new code deletes every older one first.
type OTP struct {
	gorm.Model
	Email     string    `gorm:"not null;index"`
	Code      string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Verified  bool      `gorm:"default:false"`
}

// Usable reports whether the record can still pass verification.
func (o *OTP) Usable(now time.Time) bool {
	return !o.Verified && now.Before(o.ExpiresAt)
}

// Gate reports whether the record currently authorizes a password reset.
func (o *OTP) Gate(now time.Time) bool {
	return o.Verified && now.Before(o.ExpiresAt)
}
