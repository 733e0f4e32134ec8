package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pragatibook/pragatibook-backend/internal/storage"
)

func newTestOTPService(t *testing.T) (*OTPService, *time.Time) {
	t.Helper()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := NewOTPService(storage.NewMemoryStore())
	svc.now = func() time.Time { return current }
	return svc, &current
}

func TestGenerateCodeShape(t *testing.T) {
	svc, _ := newTestOTPService(t)

	for i := 0; i < 200; i++ {
		code, err := svc.Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.NotEqual(t, byte('0'), code[0], "leading digit must never be zero")

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestVerifyIsSingleUse(t *testing.T) {
	svc, _ := newTestOTPService(t)
	require.NoError(t, svc.Save("a@x.com", "123456"))

	ok, err := svc.Verify("a@x.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	// the same code cannot be verified a second time
	ok, err = svc.Verify("a@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)

	// but the verified state is visible through the gate
	verified, err := svc.IsVerified("a@x.com")
	require.NoError(t, err)
	assert.True(t, verified)
}

func TestVerifyWrongCode(t *testing.T) {
	svc, _ := newTestOTPService(t)
	require.NoError(t, svc.Save("a@x.com", "123456"))

	ok, err := svc.Verify("a@x.com", "654321")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Verify("b@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyExpiredCode(t *testing.T) {
	svc, clock := newTestOTPService(t)
	require.NoError(t, svc.Save("a@x.com", "123456"))

	*clock = clock.Add(OTPExpiry + time.Second)

	ok, err := svc.Verify("a@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifiedGateExpires(t *testing.T) {
	svc, clock := newTestOTPService(t)
	require.NoError(t, svc.Save("a@x.com", "123456"))

	ok, err := svc.Verify("a@x.com", "123456")
	require.NoError(t, err)
	require.True(t, ok)

	// expiry can land between verify and the actual reset
	*clock = clock.Add(OTPExpiry + time.Second)

	verified, err := svc.IsVerified("a@x.com")
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestSaveInvalidatesPreviousCode(t *testing.T) {
	svc, _ := newTestOTPService(t)
	require.NoError(t, svc.Save("a@x.com", "111111"))
	require.NoError(t, svc.Save("a@x.com", "222222"))

	ok, err := svc.Verify("a@x.com", "111111")
	require.NoError(t, err)
	assert.False(t, ok, "old code must be dead even though it has not expired")

	ok, err = svc.Verify("a@x.com", "222222")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSaveInvalidatesVerifiedCode(t *testing.T) {
	svc, _ := newTestOTPService(t)
	require.NoError(t, svc.Save("a@x.com", "111111"))

	ok, err := svc.Verify("a@x.com", "111111")
	require.NoError(t, err)
	require.True(t, ok)

	// requesting a fresh code drops the verified gate too
	require.NoError(t, svc.Save("a@x.com", "222222"))

	verified, err := svc.IsVerified("a@x.com")
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestConsumeRemovesVerifiedGate(t *testing.T) {
	svc, _ := newTestOTPService(t)
	require.NoError(t, svc.Save("a@x.com", "123456"))

	ok, err := svc.Verify("a@x.com", "123456")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.Consume("a@x.com"))

	verified, err := svc.IsVerified("a@x.com")
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestSweepExpiredDeletesRecords(t *testing.T) {
	svc, clock := newTestOTPService(t)
	issued := *clock
	require.NoError(t, svc.Save("a@x.com", "123456"))

	*clock = clock.Add(OTPExpiry + time.Minute)
	require.NoError(t, svc.SweepExpired())

	// even rewinding the clock cannot revive a swept record
	*clock = issued
	ok, err := svc.Verify("a@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPServiceIsolatesEmails(t *testing.T) {
	svc, _ := newTestOTPService(t)
	require.NoError(t, svc.Save("a@x.com", "111111"))
	require.NoError(t, svc.Save("b@x.com", "222222"))

	ok, err := svc.Verify("a@x.com", "111111")
	require.NoError(t, err)
	assert.True(t, ok)

	verified, err := svc.IsVerified("b@x.com")
	require.NoError(t, err)
	assert.False(t, verified, "verifying one email must not gate another")
}
