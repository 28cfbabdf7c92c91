package invite

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIssueAndResolve(t *testing.T) {
	r := NewRegistry()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r.now = fixedClock(start)

	code, expiresAt := r.Issue("group-1", time.Hour)
	assert.Regexp(t, regexp.MustCompile(`^\d{8}$`), code)
	assert.True(t, expiresAt.Equal(start.Add(time.Hour)), "returned expiry is the one enforced")

	groupID, err := r.Resolve(code)
	require.NoError(t, err)
	assert.Equal(t, "group-1", groupID)

	// Resolving does not consume the code.
	groupID, err = r.Resolve(code)
	require.NoError(t, err)
	assert.Equal(t, "group-1", groupID)
}

func TestResolveUnknownCode(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("12345678")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestExpiredCodeIsDroppedOnResolve(t *testing.T) {
	r := NewRegistry()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r.now = fixedClock(start)

	code, _ := r.Issue("group-1", time.Hour)

	r.now = fixedClock(start.Add(2 * time.Hour))
	_, err := r.Resolve(code)
	assert.ErrorIs(t, err, ErrCodeNotFound)
	assert.Zero(t, r.Len(), "expired entry is deleted on first sight")
}

func TestZeroTTLCodeIsBornExpired(t *testing.T) {
	r := NewRegistry()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r.now = fixedClock(start)

	code, expiresAt := r.Issue("group-1", 0)
	assert.True(t, expiresAt.Equal(start))

	// Any wall-clock advance past issuance sees the code expired.
	r.now = fixedClock(start.Add(time.Nanosecond))
	_, err := r.Resolve(code)
	assert.ErrorIs(t, err, ErrCodeNotFound)
	assert.Zero(t, r.Len())
}

func TestCodeLiveUntilExpiry(t *testing.T) {
	r := NewRegistry()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r.now = fixedClock(start)

	code, _ := r.Issue("group-1", time.Hour)

	// At the exact expiry instant the code still resolves; only after
	// does it report not found.
	r.now = fixedClock(start.Add(time.Hour))
	_, err := r.Resolve(code)
	assert.NoError(t, err)

	r.now = fixedClock(start.Add(time.Hour + time.Nanosecond))
	_, err = r.Resolve(code)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestRevoke(t *testing.T) {
	r := NewRegistry()
	code, _ := r.Issue("group-1", time.Hour)

	r.Revoke(code)
	_, err := r.Resolve(code)
	assert.ErrorIs(t, err, ErrCodeNotFound)

	// Revoking an absent code is a no-op.
	r.Revoke("00000000")
}

func TestSweep(t *testing.T) {
	r := NewRegistry()
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r.now = fixedClock(start)

	r.Issue("group-1", time.Minute)
	r.Issue("group-2", time.Minute)
	live, _ := r.Issue("group-3", time.Hour)

	r.now = fixedClock(start.Add(30 * time.Minute))
	assert.Equal(t, 2, r.Sweep())
	assert.Equal(t, 1, r.Len())

	groupID, err := r.Resolve(live)
	require.NoError(t, err)
	assert.Equal(t, "group-3", groupID)
}

func TestIssuedCodesAreUnique(t *testing.T) {
	r := NewRegistry()

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, _ := r.Issue("group-1", time.Hour)
		_, dup := seen[code]
		require.False(t, dup, "duplicate live code %s", code)
		seen[code] = struct{}{}
	}
	assert.Equal(t, 200, r.Len())
}
