package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.6999999999999997, 1.7},
		{1699.9999999999998, 1700},
		{0.125, 0.13},
		{-0.125, -0.13},
		{67000, 67000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundUSD(tt.in), "RoundUSD(%v)", tt.in)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "ETH", NormalizeSymbol(" eth "))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestVenueClassAndPriority(t *testing.T) {
	assert.True(t, VenueOnChain.Valid())
	assert.True(t, VenueCentralized.Valid())
	assert.False(t, VenueClass("AMM").Valid())

	assert.True(t, PriorityMedium.Valid())
	assert.False(t, Priority("urgent").Valid())
}
