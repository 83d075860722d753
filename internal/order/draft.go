// Package order implements the order draft, its price computation, and the
// submission state machine.
package order

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gopizza-pos/api/internal/catalog"
	"github.com/gopizza-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Validation errors, surfaced one at a time in this order: size, table
// number, quantity. They never reach the store.
var (
	ErrSizeRequired        = errors.New("select the pizza size")
	ErrTableNumberRequired = errors.New("enter the table number")
	ErrQuantityRequired    = errors.New("enter the quantity")
)

// IsValidationError reports whether err is a draft validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrSizeRequired) ||
		errors.Is(err, ErrTableNumberRequired) ||
		errors.Is(err, ErrQuantityRequired)
}

// ParseQuantity parses textual quantity input. Non-numeric input is an
// error, not a silent zero; the order screen surfaces it as a validation
// message.
func ParseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrQuantityRequired
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrQuantityRequired, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: quantity must not be negative", ErrQuantityRequired)
	}
	return n, nil
}

// Draft is the in-memory state of one order being composed on the order
// screen. It is created when the screen mounts and discarded on unmount or
// after a successful submission.
type Draft struct {
	Pizza       catalog.Pizza
	Size        catalog.Size
	Quantity    int
	TableNumber string
}

// SetSize selects a size.
func (d *Draft) SetSize(size catalog.Size) { d.Size = size }

// SetQuantity sets the number of pizzas.
func (d *Draft) SetQuantity(n int) { d.Quantity = n }

// SetTableNumber sets the table the order is for.
func (d *Draft) SetTableNumber(s string) { d.TableNumber = s }

// Amount is the derived price: prices[size] * quantity. It is recomputed on
// every call, never cached. Before a size is selected (or if the size has no
// price) it returns zero so the screen always has something to render.
func (d *Draft) Amount() decimal.Decimal {
	if d.Size == "" {
		return decimal.Zero
	}
	unit, ok := d.Pizza.Prices.Price(d.Size)
	if !ok {
		return decimal.Zero
	}
	return unit.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// Validate runs the submission checks. The first failing check wins.
func (d *Draft) Validate() error {
	if d.Size == "" {
		return ErrSizeRequired
	}
	if strings.TrimSpace(d.TableNumber) == "" {
		return ErrTableNumberRequired
	}
	if d.Quantity <= 0 {
		return ErrQuantityRequired
	}
	return nil
}

// Order is the persisted record: an immutable snapshot of the draft at
// submission time. Later catalog edits never alter a placed order.
type Order struct {
	ID          uuid.UUID
	Pizza       string
	Size        catalog.Size
	Quantity    int
	Amount      decimal.Decimal
	TableNumber string
	Status      string
	WaiterID    uuid.UUID
	Image       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot freezes the draft into the record to persist. The amount is the
// derived price at this instant; the pizza name and photo are copied, not
// referenced.
func (d *Draft) Snapshot(waiterID uuid.UUID) Order {
	return Order{
		Pizza:       d.Pizza.Name,
		Size:        d.Size,
		Quantity:    d.Quantity,
		Amount:      d.Amount(),
		TableNumber: strings.TrimSpace(d.TableNumber),
		Status:      enum.OrderStatusPreparing,
		WaiterID:    waiterID,
		Image:       d.Pizza.PhotoURL,
	}
}
