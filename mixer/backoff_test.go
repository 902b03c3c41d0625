package mixer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoffGrowsExponentiallyAndCaps(t *testing.T) {
	b := NewBackoff()

	require.Equal(t, 1*time.Second, b.Next())
	require.Equal(t, 2*time.Second, b.Next())
	require.Equal(t, 4*time.Second, b.Next())
	require.Equal(t, 8*time.Second, b.Next())
	require.Equal(t, 16*time.Second, b.Next())
	require.Equal(t, 32*time.Second, b.Next())

	for i := 0; i < 5; i++ {
		require.Equal(t, 60*time.Second, b.Next())
	}
}

func TestBackoffResetReturnsToBase(t *testing.T) {
	b := NewBackoff()
	b.Next()
	b.Next()
	b.Reset()

	require.Equal(t, 1*time.Second, b.Next())
}
