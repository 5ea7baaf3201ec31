package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneySplit(t *testing.T) {
	t.Run("even split", func(t *testing.T) {
		parts, err := NewMoneyBRL(decimal.RequireFromString("90.00")).Split(3)
		require.NoError(t, err)
		require.Len(t, parts, 3)
		for _, p := range parts {
			assert.True(t, p.Amount().Equal(decimal.RequireFromString("30.00")))
		}
	})

	t.Run("remainder cents land on the earliest parts", func(t *testing.T) {
		parts, err := NewMoneyBRL(decimal.RequireFromString("100.00")).Split(3)
		require.NoError(t, err)
		require.Len(t, parts, 3)

		assert.True(t, parts[0].Amount().Equal(decimal.RequireFromString("33.34")), "got %s", parts[0].Amount())
		assert.True(t, parts[1].Amount().Equal(decimal.RequireFromString("33.33")))
		assert.True(t, parts[2].Amount().Equal(decimal.RequireFromString("33.33")))

		sum := decimal.Zero
		for _, p := range parts {
			sum = sum.Add(p.Amount())
		}
		assert.True(t, sum.Equal(decimal.RequireFromString("100.00")))
	})

	t.Run("single part returns the original", func(t *testing.T) {
		parts, err := NewMoneyBRL(decimal.RequireFromString("10.55")).Split(1)
		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.True(t, parts[0].Amount().Equal(decimal.RequireFromString("10.55")))
	})

	t.Run("rejects non-positive part counts", func(t *testing.T) {
		_, err := NewMoneyBRL(decimal.NewFromInt(10)).Split(0)
		require.Error(t, err)
		_, err = NewMoneyBRL(decimal.NewFromInt(10)).Split(-2)
		require.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	t.Run("add same currency", func(t *testing.T) {
		sum, err := NewMoneyBRL(decimal.NewFromInt(10)).Add(NewMoneyBRL(decimal.NewFromInt(5)))
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromInt(15)))
	})

	t.Run("currency mismatch fails", func(t *testing.T) {
		usd, err := NewMoney(decimal.NewFromInt(5), "USD")
		require.NoError(t, err)
		_, err = NewMoneyBRL(decimal.NewFromInt(10)).Add(usd)
		require.Error(t, err)
		_, err = NewMoneyBRL(decimal.NewFromInt(10)).Subtract(usd)
		require.Error(t, err)
	})

	t.Run("round", func(t *testing.T) {
		rounded := NewMoneyBRL(decimal.RequireFromString("10.005")).Round(2)
		assert.True(t, rounded.Amount().Equal(decimal.RequireFromString("10.01")))
	})
}
