package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	itemdomain "github.com/ghuser/stockledger/services/inventory/domain"
)

// ItemName is a value object representing a valid item name.
// Encapsulates validation rules: 1 <= len(trimmed name) <= 50, counted in runes.
type ItemName string

const (
	minItemNameLength = 1
	maxItemNameLength = 50
)

// NewItemName trims surrounding whitespace and constructs a valid ItemName,
// or returns an error wrapping ErrInvalidItemName if constraints are violated.
func NewItemName(s string) (ItemName, error) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < minItemNameLength {
		return "", fmt.Errorf("%w: name must be at least %d character", itemdomain.ErrInvalidItemName, minItemNameLength)
	}
	if n > maxItemNameLength {
		return "", fmt.Errorf("%w: name must not exceed %d characters (got %d)", itemdomain.ErrInvalidItemName, maxItemNameLength, n)
	}
	return ItemName(s), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}

// Matches reports whether term names this item, ignoring case and
// surrounding whitespace.
func (n ItemName) Matches(term string) bool {
	return strings.EqualFold(string(n), strings.TrimSpace(term))
}

// Contains reports whether term is a case-insensitive substring of the name.
func (n ItemName) Contains(term string) bool {
	return strings.Contains(strings.ToLower(string(n)), strings.ToLower(strings.TrimSpace(term)))
}
