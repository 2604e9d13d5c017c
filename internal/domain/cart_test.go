package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// CartLine.UnitPrice Tests
// ============================================================================

func TestUnitPrice_RetailBelowThreshold(t *testing.T) {
	l := CartLine{UnitPriceRetail: 10000, UnitPriceWholesale: 8000, Quantity: 3}
	assert.Equal(t, int64(10000), l.UnitPrice())
}

func TestUnitPrice_WholesaleAtThreshold(t *testing.T) {
	l := CartLine{UnitPriceRetail: 10000, UnitPriceWholesale: 8000, Quantity: 4}
	assert.Equal(t, int64(8000), l.UnitPrice())
}

func TestUnitPrice_WholesaleAboveThreshold(t *testing.T) {
	l := CartLine{UnitPriceRetail: 10000, UnitPriceWholesale: 8000, Quantity: 10}
	assert.Equal(t, int64(8000), l.UnitPrice())
}

// ============================================================================
// CartTotal Tests
// ============================================================================

func TestCartTotal_SingleLineCrossesThreshold(t *testing.T) {
	// variant at retail $100 / wholesale $80
	line := CartLine{VariantID: "V1", UnitPriceRetail: 10000, UnitPriceWholesale: 8000, Quantity: 1}
	assert.Equal(t, int64(10000), CartTotal([]CartLine{line}))

	line.Quantity = 4
	assert.Equal(t, int64(32000), CartTotal([]CartLine{line}))
}

func TestCartTotal_ThresholdIsPerLineNotAggregate(t *testing.T) {
	// Two lines of quantity 3: combined quantity is 6 but neither line
	// reaches the wholesale threshold on its own.
	lines := []CartLine{
		{VariantID: "V1", UnitPriceRetail: 1000, UnitPriceWholesale: 800, Quantity: 3},
		{VariantID: "V2", UnitPriceRetail: 2000, UnitPriceWholesale: 1500, Quantity: 3},
	}
	assert.Equal(t, int64(3*1000+3*2000), CartTotal(lines))
}

func TestCartTotal_MixedTiers(t *testing.T) {
	lines := []CartLine{
		{VariantID: "V1", UnitPriceRetail: 1000, UnitPriceWholesale: 800, Quantity: 5},
		{VariantID: "V2", UnitPriceRetail: 2000, UnitPriceWholesale: 1500, Quantity: 1},
	}
	assert.Equal(t, int64(5*800+2000), CartTotal(lines))
}

func TestCartTotal_Empty(t *testing.T) {
	assert.Equal(t, int64(0), CartTotal(nil))
	assert.Equal(t, int64(0), CartTotal([]CartLine{}))
}

// ============================================================================
// FindLineIndex / CartItemCount Tests
// ============================================================================

func TestFindLineIndex(t *testing.T) {
	lines := []CartLine{
		{VariantID: "V1"},
		{VariantID: "V2"},
	}
	assert.Equal(t, 0, FindLineIndex(lines, "V1"))
	assert.Equal(t, 1, FindLineIndex(lines, "V2"))
	assert.Equal(t, -1, FindLineIndex(lines, "V3"))
	assert.Equal(t, -1, FindLineIndex(nil, "V1"))
}

func TestCartItemCount(t *testing.T) {
	lines := []CartLine{
		{VariantID: "V1", Quantity: 2},
		{VariantID: "V2", Quantity: 3},
	}
	assert.Equal(t, 5, CartItemCount(lines))
	assert.Equal(t, 0, CartItemCount(nil))
}
