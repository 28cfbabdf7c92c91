package codegen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvitationCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{8}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, pattern, InvitationCode())
	}
}

func TestInvitationCodeSpread(t *testing.T) {
	// 1000 draws from a 1e8 space collide with probability ~0.5%; a
	// near-constant generator would fail this immediately.
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		seen[InvitationCode()] = struct{}{}
	}
	assert.Greater(t, len(seen), 990)
}
