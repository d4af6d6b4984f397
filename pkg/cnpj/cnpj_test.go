package cnpj

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"two digits", "11", "11"},
		{"separator waits for next digit", "112", "11.2"},
		{"five digits", "11222", "11.222"},
		{"eight digits", "11222333", "11.222.333"},
		{"nine digits opens branch", "112223330", "11.222.333/0"},
		{"twelve digits", "112223330001", "11.222.333/0001"},
		{"thirteen digits opens check", "1122233300018", "11.222.333/0001-8"},
		{"full", "11222333000181", "11.222.333/0001-81"},
		{"already formatted", "11.222.333/0001-81", "11.222.333/0001-81"},
		{"junk is stripped", "ab11 22-2x", "11.222"},
		{"truncates beyond fourteen", "1122233300018199", "11.222.333/0001-81"},
		{"non-ascii digits ignored", "١١22", "22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.raw))
		})
	}
}

func TestFormatNormalizeRoundTrip(t *testing.T) {
	const digits = "9876543210987654"
	for n := 0; n <= len(digits); n++ {
		s := digits[:n]
		want := s
		if len(want) > Length {
			want = want[:Length]
		}
		assert.Equal(t, want, Normalize(Format(s)), "length %d", n)
	}
}

func TestIsValidAfterFormat(t *testing.T) {
	for _, s := range []string{"", "1", "1122233300018", "11222333000181", "112223330001812", "11.222.333/0001-81", "x11222333000181x"} {
		want := len(Normalize(s)) == Length
		assert.Equal(t, want, IsValid(Normalize(Format(s))), "input %q", s)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("00000000000000"))
	assert.True(t, IsValid("11222333000182"), "structural check only")
	assert.False(t, IsValid("1122233300018"))
	assert.False(t, IsValid("11.222.333/0001"))
	assert.False(t, IsValid("1122233300018a"))
}

func TestHasValidCheckDigits(t *testing.T) {
	assert.True(t, HasValidCheckDigits("11222333000181"))
	assert.True(t, HasValidCheckDigits("11444777000161"))
	assert.False(t, HasValidCheckDigits("11222333000182"))
	assert.False(t, HasValidCheckDigits("11111111111111"))
	assert.False(t, HasValidCheckDigits(strings.Repeat("1", 13)))
}
