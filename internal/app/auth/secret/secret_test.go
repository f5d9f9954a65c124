package secret

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumericCode(t *testing.T) {
	re := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 200; i++ {
		code, err := NumericCode(6)
		require.NoError(t, err)
		require.Regexp(t, re, code)
	}
}

func TestOpaqueToken(t *testing.T) {
	a, err := OpaqueToken(32)
	require.NoError(t, err)
	b, _ := OpaqueToken(32)
	require.Len(t, a, 43)
	require.NotEqual(t, a, b)
}

func TestHashHex(t *testing.T) {
	require.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashHex(""))
	require.True(t, Equal(HashHex("x"), HashHex("x")))
	require.False(t, Equal(HashHex("x"), HashHex("y")))
}
