package commands

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatWon(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"35000", "35,000"},
		{"1234567.5", "1,234,567.5"},
		{"-12000", "-12,000"},
		{"0.1", "0.1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWon(decimal.RequireFromString(tt.in)))
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "35.7%", FormatPercent(35.7))
	assert.Equal(t, "-100.0%", FormatPercent(-100))
}
