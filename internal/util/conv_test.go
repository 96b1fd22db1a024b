package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundPercent(t *testing.T) {
	cases := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13}, // 12.5 向上取整
		{7, 10, 70},
		{4, 4, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundPercent(tc.part, tc.total), "%d/%d", tc.part, tc.total)
	}
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 33.3, RoundTo(100.0/3, 1))
	assert.Equal(t, 66.7, RoundTo(200.0/3, 1))
	assert.Equal(t, 0.0, RoundTo(0, 1))
	assert.Equal(t, 12.0, RoundTo(12.04, 0))
}

func TestParseBoolDefault(t *testing.T) {
	assert.True(t, ParseBoolDefault("", true))
	assert.False(t, ParseBoolDefault("", false))
	assert.False(t, ParseBoolDefault("false", true))
	assert.True(t, ParseBoolDefault("1", false))
	assert.True(t, ParseBoolDefault("nope", true))
}
