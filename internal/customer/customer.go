package customer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Tier classifies a customer for discount eligibility.
type Tier string

const (
	TierRegular Tier = "REGULAR"
	TierVIP     Tier = "VIP"
)

// ValidTier reports whether t is a known tier.
func ValidTier(t Tier) bool {
	return t == TierRegular || t == TierVIP
}

// ErrInvalidCustomer is returned when customer attributes fail validation.
var ErrInvalidCustomer = errors.New("invalid customer")

// Customer carries identity, tier and loyalty balance. The pricing engine
// never mutates a customer; points change only through the explicit
// operations below.
type Customer struct {
	ID            string
	Name          string
	Tier          Tier
	LoyaltyPoints int
}

// New validates the attributes and returns a Customer. When id is empty a
// fresh uuid is assigned.
func New(id, name string, tier Tier, loyaltyPoints int) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidCustomer)
	}
	if !ValidTier(tier) {
		return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidCustomer, tier)
	}
	if loyaltyPoints < 0 {
		return nil, fmt.Errorf("%w: loyalty points must be >= 0, got %d", ErrInvalidCustomer, loyaltyPoints)
	}
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	return &Customer{ID: id, Name: strings.TrimSpace(name), Tier: tier, LoyaltyPoints: loyaltyPoints}, nil
}

// AddPoints credits loyalty points.
func (c *Customer) AddPoints(points int) error {
	if points <= 0 {
		return fmt.Errorf("%w: points must be positive, got %d", ErrInvalidCustomer, points)
	}
	c.LoyaltyPoints += points
	return nil
}

// RedeemPoints debits loyalty points. Redeeming more than the balance
// floors it at zero.
func (c *Customer) RedeemPoints(points int) error {
	if points <= 0 {
		return fmt.Errorf("%w: points must be positive, got %d", ErrInvalidCustomer, points)
	}
	c.LoyaltyPoints -= points
	if c.LoyaltyPoints < 0 {
		c.LoyaltyPoints = 0
	}
	return nil
}
