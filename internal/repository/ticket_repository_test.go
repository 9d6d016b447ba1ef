package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"50%", `50\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, escapeLike(tc.in), "input %q", tc.in)
	}
}
