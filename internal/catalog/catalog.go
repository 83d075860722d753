// Package catalog holds the pizza catalog model and the prefix-search
// mechanism used by the menu screen.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Size is a pizza size key. Every pizza in the catalog carries a price for
// each size.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Sizes returns every size key in menu order.
func Sizes() []Size {
	return []Size{SizeSmall, SizeMedium, SizeLarge}
}

// ParseSize validates a size key coming from a client.
func ParseSize(s string) (Size, error) {
	switch Size(s) {
	case SizeSmall, SizeMedium, SizeLarge:
		return Size(s), nil
	}
	return "", fmt.Errorf("unknown size %q", s)
}

// PriceTable maps a size key to the unit price for one pizza.
type PriceTable map[Size]decimal.Decimal

// Price returns the unit price for size, if one is set.
func (t PriceTable) Price(size Size) (decimal.Decimal, bool) {
	p, ok := t[size]
	return p, ok
}

// ErrPriceSizeMissing indicates a pizza document is missing the price for a
// size key the order screen offers. This is a data-integrity fault of the
// catalog write path, never a user error.
var ErrPriceSizeMissing = errors.New("price size missing")

// Pizza is one catalog item.
//
// NameInsensitive is the sort/search key: always lower(trim(Name)). It is
// maintained by the catalog write path (see the pizzas handler); readers
// assume the invariant holds.
type Pizza struct {
	ID              uuid.UUID
	Name            string
	NameInsensitive string
	Description     string
	PhotoURL        string
	Prices          PriceTable
}

// ValidateForOrder checks that p carries a price for every size key the
// order screen offers. Absence means the catalog document is corrupt.
func ValidateForOrder(p Pizza) error {
	for _, size := range Sizes() {
		if _, ok := p.Prices[size]; !ok {
			return fmt.Errorf("%w: pizza %q has no %q price", ErrPriceSizeMissing, p.Name, size)
		}
	}
	return nil
}

// HighSentinel sorts after any character that appears in a pizza name, so the
// half-open range [q, q+HighSentinel) behaves as a prefix match on the
// name_insensitive index.
const HighSentinel = ""

// NormalizeQuery lowercases and trims a raw search query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// PrefixRange converts a raw query into the lexicographic range scanned by
// the catalog index. The empty query yields the full catalog.
func PrefixRange(q string) (start, end string) {
	start = NormalizeQuery(q)
	return start, start + HighSentinel
}
