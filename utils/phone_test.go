package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeContactNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"555-1234", "5551234"},
		{"+1-555-1234", "+15551234"},
		{"(555) 123 4567", "5551234567"},
		{"  5551234 ", "5551234"},
		{"555+1234", "5551234"},
		{"", ""},
		{"abc", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeContactNumber(tc.in), "input %q", tc.in)
	}
}
