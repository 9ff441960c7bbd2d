package tokenizer_test

import (
	"strings"
	"testing"

	"github.com/kadirpekel/hector-driverloop/tokenizer"
	"github.com/stretchr/testify/require"
)

func TestCountDeterministic(t *testing.T) {
	c, err := tokenizer.New()
	require.NoError(t, err)

	text := "the quick brown fox jumps over the lazy dog"
	first := c.Count(text)
	second := c.Count(text)

	require.Equal(t, first, second)
	require.Greater(t, first, 0)
}

func TestCountEmpty(t *testing.T) {
	c, err := tokenizer.New()
	require.NoError(t, err)
	require.Equal(t, 0, c.Count(""))
}

func TestCountMonotonicWithRepetition(t *testing.T) {
	c, err := tokenizer.New()
	require.NoError(t, err)

	short := c.Count("hello world")
	long := c.Count(strings.Repeat("hello world ", 100))
	require.Greater(t, long, short)
}

func TestShared(t *testing.T) {
	a, err := tokenizer.Shared()
	require.NoError(t, err)
	b, err := tokenizer.Shared()
	require.NoError(t, err)
	require.Same(t, a, b)
}
