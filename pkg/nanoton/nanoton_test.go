package nanoton

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToNano(t *testing.T) {
	tests := []struct {
		name     string
		ton      string
		expected uint64
	}{
		{name: "whole", ton: "4", expected: 4_000_000_000},
		{name: "fractional", ton: "0.04", expected: 40_000_000},
		{name: "one nano", ton: "0.000000001", expected: 1},
		{name: "sub-nano truncates", ton: "0.0000000019", expected: 1},
		{name: "zero", ton: "0", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToNano(decimal.RequireFromString(tt.ton)))
		})
	}
}

func TestFromNano(t *testing.T) {
	assert.True(t, FromNano(4_000_000_000).Equal(decimal.NewFromInt(4)))
	assert.True(t, FromNano(1).Equal(decimal.RequireFromString("0.000000001")))
}

func TestRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("3.141592653")
	assert.True(t, FromNano(ToNano(amount)).Equal(amount))
}
