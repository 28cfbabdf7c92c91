package service

import (
	"errors"
)

// Validation and invariant failures surfaced to the HTTP layer. Repository
// not-found errors pass through untouched.
var (
	ErrInvalidAmount      = errors.New("amount must be non-negative")
	ErrMissingField       = errors.New("missing required field")
	ErrOwnerNotMember     = errors.New("owner is not a member of the target group")
	ErrNoMembers          = errors.New("group has no resolvable members")
	ErrSpendingLocked     = errors.New("spending has paid reimbursements, amount and group cannot change")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)
