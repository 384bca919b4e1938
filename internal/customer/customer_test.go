package customer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-caixa/internal/customer"
)

func TestNewValidation(t *testing.T) {
	_, err := customer.New("C1", "", customer.TierVIP, 0)
	require.ErrorIs(t, err, customer.ErrInvalidCustomer)

	_, err = customer.New("C1", "Ana", "GOLD", 0)
	require.ErrorIs(t, err, customer.ErrInvalidCustomer)

	_, err = customer.New("C1", "Ana", customer.TierVIP, -1)
	require.ErrorIs(t, err, customer.ErrInvalidCustomer)

	c, err := customer.New("", "Ana", customer.TierVIP, 10)
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
}

func TestPoints(t *testing.T) {
	c, err := customer.New("C2", "Bruno", customer.TierRegular, 0)
	require.NoError(t, err)

	require.NoError(t, c.AddPoints(30))
	require.Equal(t, 30, c.LoyaltyPoints)
	require.ErrorIs(t, c.AddPoints(0), customer.ErrInvalidCustomer)

	require.NoError(t, c.RedeemPoints(10))
	require.Equal(t, 20, c.LoyaltyPoints)

	// redeeming past the balance floors at zero
	require.NoError(t, c.RedeemPoints(50))
	require.Equal(t, 0, c.LoyaltyPoints)
}

func TestRegistry(t *testing.T) {
	reg := customer.NewRegistry()
	c, err := customer.New("C1", "Ana", customer.TierVIP, 0)
	require.NoError(t, err)
	require.NoError(t, reg.Register(c))
	require.ErrorIs(t, reg.Register(c), customer.ErrInvalidCustomer)

	got, err := reg.Get("C1")
	require.NoError(t, err)
	require.Equal(t, "Ana", got.Name)

	_, err = reg.Get("C9")
	require.ErrorIs(t, err, customer.ErrNotFound)
}
