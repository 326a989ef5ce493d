package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	Visa       CardType = "Visa"
	Mastercard CardType = "Mastercard"
)

type (
	// CardType is the payment network of a card.
	CardType string

	// Card is a user-registered payment card. Number is display-only and
	// never validated against a checksum. Color holds an encoded color blob
	// (see EncodeColor); an undecodable blob falls back to DefaultCardColor.
	Card struct {
		ID        string
		Name      string
		Number    string
		Limit     int64
		ExpMonth  int
		ExpYear   int
		Type      CardType
		Color     []byte
		Timestamp time.Time
	}

	// CardTransaction is a monetary transaction posted against a Card.
	// Amount is signed; Photo is an optional JPEG blob, already resized
	// before it reaches the store.
	CardTransaction struct {
		ID          string
		CardID      string
		Name        string
		Amount      float64
		Timestamp   time.Time
		Photo       []byte
		CategoryIDs []string
	}

	// TransactionCategory is a user-defined tag shared across transactions.
	TransactionCategory struct {
		ID        string
		Name      string
		Color     []byte
		Timestamp time.Time
	}
)

// Error taxonomy. Specific validation errors wrap ErrValidation so callers
// can classify with a single errors.Is check.
var (
	ErrValidation  = errors.New("invalid input")
	ErrNotFound    = errors.New("entity not found")
	ErrPersistence = errors.New("persistence failure")

	ErrInvalidCardType = fmt.Errorf("%w: unknown card type", ErrValidation)
	ErrInvalidExpMonth = fmt.Errorf("%w: expiration month out of range", ErrValidation)
	ErrEmptyName       = fmt.Errorf("%w: empty name", ErrValidation)
	ErrMissingCard     = fmt.Errorf("%w: transaction without card reference", ErrValidation)
)

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// IsValid reports whether t names a known card network.
func (t CardType) IsValid() bool {
	switch t {
	case Visa, Mastercard:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (t CardType) String() string {
	return string(t)
}

// Validate checks the fields a card must carry before it is stored.
// Name and number may be empty strings (the original tolerated them), but
// the network type must be a known enum value and the expiration month,
// when set, must be a calendar month. Expiration year is deliberately not
// checked against the current year here; that is a form-level concern.
func (c Card) Validate() error {
	if !c.Type.IsValid() {
		return ErrInvalidCardType
	}
	if c.ExpMonth < 1 || c.ExpMonth > 12 {
		return ErrInvalidExpMonth
	}
	return nil
}

// Validate checks a transaction's required references. The owning card id
// must be present; existence of the card is the store's responsibility.
func (tx CardTransaction) Validate() error {
	if tx.CardID == "" {
		return ErrMissingCard
	}
	return nil
}

// Validate checks a category before it is stored.
func (c TransactionCategory) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	return nil
}
