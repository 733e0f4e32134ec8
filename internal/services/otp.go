package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/pragatibook/pragatibook-backend/internal/models"
	"github.com/pragatibook/pragatibook-backend/internal/storage"
)

// OTPExpiry is how long a password-reset code stays valid after issue.
const OTPExpiry = 10 * time.Minute

// OTPService owns the lifecycle of password-reset codes: a code is issued
// for an email (discarding any older one), verified at most once, then either
// consumed by a successful reset or left to expire.
type OTPService struct {
	store storage.Store
	now   func() time.Time

	// Save and Verify serialize per email so a verify can never observe
	// the window between delete-old and insert-new during a resend.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOTPService creates a new OTP service backed by the given store
func NewOTPService(store storage.Store) *OTPService {
	return &OTPService{
		store: store,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *OTPService) emailLock(email string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[email]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[email] = lock
	}
	return lock
}

// Generate produces a cryptographically random 6-digit code in
// 100000–999999. The leading digit is never zero; saved codes and the
// reset emails rely on that fixed width.
func (s *OTPService) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// Save discards every existing code for the email and stores a fresh
// unverified one. A storage failure here aborts the whole reset request.
func (s *OTPService) Save(email, code string) error {
	lock := s.emailLock(email)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.DeleteOTPsByEmail(email); err != nil {
		return fmt.Errorf("failed to discard previous codes: %w", err)
	}

	otp := &models.OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(OTPExpiry),
		Verified:  false,
	}
	if _, err := s.store.CreateOTP(otp); err != nil {
		return fmt.Errorf("failed to save code: %w", err)
	}
	return nil
}

// Verify checks a submitted code and marks it verified on success. It
// returns false for a wrong code, an expired code and an already-verified
// code alike; callers get no hint which one it was.
func (s *OTPService) Verify(email, code string) (bool, error) {
	lock := s.emailLock(email)
	lock.Lock()
	defer lock.Unlock()

	otp, err := s.store.GetUsableOTP(email, code, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.store.MarkOTPVerified(otp.ID); err != nil {
		return false, err
	}
	return true, nil
}

// IsVerified reports whether a verified, unexpired code exists for the
// email. Reset handlers must call this at reset time, not rely on an
// earlier Verify: expiry can land in between.
func (s *OTPService) IsVerified(email string) (bool, error) {
	_, err := s.store.GetVerifiedOTP(email, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Consume deletes the verified code after a successful password reset so
// it cannot authorize a second one.
func (s *OTPService) Consume(email string) error {
	return s.store.DeleteVerifiedOTPs(email)
}

// SweepExpired removes every expired code. Purely housekeeping; the other
// operations already filter on expiry.
func (s *OTPService) SweepExpired() error {
	return s.store.DeleteExpiredOTPs(s.now())
}
