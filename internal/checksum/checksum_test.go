package checksum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum_Stable(t *testing.T) {
	a := Sum([]byte("hello"))
	require.Equal(t, a, Sum([]byte("hello")))
	require.Len(t, a, 64)
}

func TestSumParts_BoundarySensitive(t *testing.T) {
	a := SumParts([]byte("ab"), []byte("c"))
	require.NotEqual(t, a, SumParts([]byte("a"), []byte("bc")), "moving a byte across parts should change the digest")
	require.Equal(t, a, SumParts([]byte("ab"), []byte("c")))
}
