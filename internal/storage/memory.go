package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pragatibook/pragatibook-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local runs
type MemoryStore struct {
	users     map[uint]*models.User
	bills     map[uint]*models.Bill
	otps      map[uint]*models.OTP
	templates map[uint]*models.TemplateSettings // keyed by user id

	// Mutexes for thread safety
	userMu     sync.RWMutex
	billMu     sync.RWMutex
	otpMu      sync.RWMutex
	templateMu sync.RWMutex

	// Counters for ID generation
	userCounter     uint
	billCounter     uint
	otpCounter      uint
	templateCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[uint]*models.User),
		bills:     make(map[uint]*models.Bill),
		otps:      make(map[uint]*models.OTP),
		templates: make(map[uint]*models.TemplateSettings),
	}
}

// User operations

func (m *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email {
			return nil, fmt.Errorf("user with email %s already exists", user.Email)
		}
	}

	m.userCounter++
	user.ID = m.userCounter
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	m.users[user.ID] = user
	return user, nil
}

func (m *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetUserByID(id uint) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	return user, nil
}

func (m *MemoryStore) UpdateUserPassword(email, hashedPassword string) error {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	for _, user := range m.users {
		if user.Email == email {
			user.Password = hashedPassword
			user.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}

// Bill operations

func (m *MemoryStore) CreateBill(bill *models.Bill) (*models.Bill, error) {
	m.billMu.Lock()
	defer m.billMu.Unlock()

	m.billCounter++
	bill.ID = m.billCounter
	bill.CreatedAt = time.Now()
	bill.UpdatedAt = bill.CreatedAt

	m.bills[bill.ID] = bill
	return bill, nil
}

func (m *MemoryStore) GetBill(id, userID uint) (*models.Bill, error) {
	m.billMu.RLock()
	defer m.billMu.RUnlock()

	bill, exists := m.bills[id]
	if !exists || bill.UserID != userID {
		return nil, ErrNotFound
	}
	return bill, nil
}

func (m *MemoryStore) GetBillsByUser(userID uint) ([]*models.Bill, error) {
	m.billMu.RLock()
	defer m.billMu.RUnlock()

	var bills []*models.Bill
	for _, bill := range m.bills {
		if bill.UserID == userID {
			bills = append(bills, bill)
		}
	}

	// Most recently updated first, matching the dashboard ordering
	sort.Slice(bills, func(i, j int) bool {
		return bills[i].UpdatedAt.After(bills[j].UpdatedAt)
	})
	return bills, nil
}

func (m *MemoryStore) UpdateBill(bill *models.Bill) error {
	m.billMu.Lock()
	defer m.billMu.Unlock()

	existing, exists := m.bills[bill.ID]
	if !exists || existing.UserID != bill.UserID {
		return ErrNotFound
	}

	bill.CreatedAt = existing.CreatedAt
	bill.UpdatedAt = time.Now()
	m.bills[bill.ID] = bill
	return nil
}

func (m *MemoryStore) DeleteBill(id, userID uint) error {
	m.billMu.Lock()
	defer m.billMu.Unlock()

	bill, exists := m.bills[id]
	if !exists || bill.UserID != userID {
		return ErrNotFound
	}

	delete(m.bills, id)
	return nil
}

// OTP operations

func (m *MemoryStore) CreateOTP(otp *models.OTP) (*models.OTP, error) {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	m.otpCounter++
	otp.ID = m.otpCounter
	otp.CreatedAt = time.Now()
	otp.UpdatedAt = otp.CreatedAt

	m.otps[otp.ID] = otp
	return otp, nil
}

func (m *MemoryStore) DeleteOTPsByEmail(email string) error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	for id, otp := range m.otps {
		if otp.Email == email {
			delete(m.otps, id)
		}
	}
	return nil
}

func (m *MemoryStore) GetUsableOTP(email, code string, now time.Time) (*models.OTP, error) {
	m.otpMu.RLock()
	defer m.otpMu.RUnlock()

	for _, otp := range m.otps {
		if otp.Email == email && otp.Code == code && otp.Usable(now) {
			return otp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) MarkOTPVerified(id uint) error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	otp, exists := m.otps[id]
	if !exists {
		return ErrNotFound
	}

	otp.Verified = true
	otp.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) GetVerifiedOTP(email string, now time.Time) (*models.OTP, error) {
	m.otpMu.RLock()
	defer m.otpMu.RUnlock()

	for _, otp := range m.otps {
		if otp.Email == email && otp.Gate(now) {
			return otp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) DeleteVerifiedOTPs(email string) error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	for id, otp := range m.otps {
		if otp.Email == email && otp.Verified {
			delete(m.otps, id)
		}
	}
	return nil
}

func (m *MemoryStore) DeleteExpiredOTPs(now time.Time) error {
	m.otpMu.Lock()
	defer m.otpMu.Unlock()

	for id, otp := range m.otps {
		if !otp.ExpiresAt.After(now) {
			delete(m.otps, id)
		}
	}
	return nil
}

// Template settings operations

func (m *MemoryStore) GetTemplateSettings(userID uint) (*models.TemplateSettings, error) {
	m.templateMu.RLock()
	defer m.templateMu.RUnlock()

	settings, exists := m.templates[userID]
	if !exists {
		return nil, ErrNotFound
	}
	return settings, nil
}

func (m *MemoryStore) SaveTemplateSettings(settings *models.TemplateSettings) (*models.TemplateSettings, error) {
	m.templateMu.Lock()
	defer m.templateMu.Unlock()

	if existing, exists := m.templates[settings.UserID]; exists {
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
	} else {
		m.templateCounter++
		settings.ID = m.templateCounter
		settings.CreatedAt = time.Now()
	}
	settings.UpdatedAt = time.Now()

	m.templates[settings.UserID] = settings
	return settings, nil
}
