// Package codegen produces the short numeric codes handed to invitees.
package codegen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// InvitationCodeLength is fixed at 8 digits, a 10^8 code space.
const InvitationCodeLength = 8

var codeSpace = big.NewInt(100000000)

// InvitationCode returns a uniformly random 8-digit numeric string,
// zero-padded. Uniqueness against live codes is the caller's job: the
// registry retries until the code is unused.
func InvitationCode() string {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(fmt.Sprintf("codegen: random source unavailable: %v", err))
	}
	return fmt.Sprintf("%08d", n)
}
