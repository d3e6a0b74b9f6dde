package helpers

import (
	"strings"

	"github.com/google/uuid"
)

// NewArcadeAPIKey returns a credential for a terminal. Uniqueness against the
// arcades table is still checked by the caller before persisting.
func NewArcadeAPIKey() string {
	return "arcade_key_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewPaymentRef returns the reference recorded on a mock ticket purchase.
func NewPaymentRef() string {
	return "pay_" + uuid.NewString()
}
