package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-caixa/internal/money"
	"github.com/noah-isme/backend-caixa/internal/pricing"
)

// Status is the order lifecycle state. OPEN transitions to PAID or
// CANCELLED; both are terminal, no resurrection.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
)

var (
	// ErrAlreadyCancelled is returned when paying a cancelled order.
	ErrAlreadyCancelled = errors.New("order already cancelled")
	// ErrAlreadyPaid is returned when cancelling a paid order.
	ErrAlreadyPaid = errors.New("order already paid")
)

// Line is a frozen snapshot of one cart line at checkout time.
type Line struct {
	SKU       string
	Qty       int
	UnitPrice decimal.Decimal
}

// Total returns the rounded line total.
func (l Line) Total() decimal.Decimal {
	return money.Round2(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
}

// Order is created by checkout after inventory deduction succeeds.
type Order struct {
	ID               string
	CustomerID       string
	Lines            []Line
	Breakdown        pricing.Breakdown
	Status           Status
	Installments     int
	InstallmentValue decimal.Decimal
	CreatedAt        time.Time
}

// New constructs an OPEN order with a fresh id.
func New(customerID string, lines []Line, breakdown pricing.Breakdown, installments int, createdAt time.Time) *Order {
	value := breakdown.Total
	if installments > 1 {
		value = money.Round2(breakdown.Total.Div(decimal.NewFromInt(int64(installments))))
	}
	return &Order{
		ID:               uuid.NewString(),
		CustomerID:       customerID,
		Lines:            lines,
		Breakdown:        breakdown,
		Status:           StatusOpen,
		Installments:     installments,
		InstallmentValue: value,
		CreatedAt:        createdAt,
	}
}

// Pay moves the order to PAID. Paying an already PAID order is a no-op;
// paying a CANCELLED order fails.
func (o *Order) Pay() error {
	switch o.Status {
	case StatusPaid:
		return nil
	case StatusCancelled:
		return fmt.Errorf("%w: %s", ErrAlreadyCancelled, o.ID)
	}
	o.Status = StatusPaid
	return nil
}

// Cancel moves the order to CANCELLED. Cancelling an already CANCELLED
// order is a no-op; cancelling a PAID order fails.
func (o *Order) Cancel() error {
	switch o.Status {
	case StatusCancelled:
		return nil
	case StatusPaid:
		return fmt.Errorf("%w: %s", ErrAlreadyPaid, o.ID)
	}
	o.Status = StatusCancelled
	return nil
}
