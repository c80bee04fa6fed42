package institution

import (
	"errors"
	"time"
)

// Type identifies the kind of financial institution behind a connection.
type Type string

const (
	TypeBank       Type = "bank"
	TypeCreditCard Type = "credit_card"
	TypeSecurities Type = "securities"
)

var validTypes = map[Type]struct{}{
	TypeBank:       {},
	TypeCreditCard: {},
	TypeSecurities: {},
}

// Domain errors
var (
	ErrInstitutionNotFound = errors.New("institution not found")
	ErrInvalidType         = errors.New("institution type must be 'bank', 'credit_card' or 'securities'")
)

// Institution is a registered financial-institution connection. The
// monitoring core treats these as read-only references: it never creates
// or mutates them.
type Institution struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         Type      `json:"type"`
	ProviderCode string    `json:"providerCode"`
	CreatedAt    time.Time `json:"createdAt"`
}

func IsValidType(t Type) bool {
	_, ok := validTypes[t]
	return ok
}
