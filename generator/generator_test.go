package generator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarancss/bridgebot/lib/block"
)

const seed = "642ce4e20f09c9f4d285c2b336063eaafbe4cb06dece8134f3a64bdd8f8c0c24df73e1a2e7056359b6db61e179ff45e5ada51d14f07b30becb6d92b961d35df4"

func TestPromptCount(t *testing.T) {
	var out bytes.Buffer

	n, err := PromptCount(strings.NewReader("3\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, out.String(), "How many wallets")

	n, err = PromptCount(strings.NewReader("  12 "), &out)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	for _, in := range []string{"0\n", "-2\n", "abc\n", "1.5\n", "\n"} {
		_, err = PromptCount(strings.NewReader(in), &out)
		assert.True(t, errors.Is(err, ErrBadCount), in)
	}

	_, err = PromptCount(strings.NewReader(""), &out)
	assert.Error(t, err)
}

func TestGenerateRandom(t *testing.T) {
	var logs bytes.Buffer
	g := New(zerolog.New(&logs))

	accs, err := g.Generate(3)
	require.NoError(t, err)
	require.Len(t, accs, 3)

	seen := map[string]bool{}
	for _, a := range accs {
		acct, err := block.AccountFromHex(a.PrivateKey, a.Address)
		require.NoError(t, err)
		assert.Equal(t, a.Address, acct.Address.Hex())
		assert.Len(t, a.PublicKey, 2+130)
		assert.False(t, seen[a.Address])
		seen[a.Address] = true
	}

	assert.Equal(t, 3, strings.Count(logs.String(), "account created"))

	_, err = g.Generate(0)
	assert.True(t, errors.Is(err, ErrBadCount))
}

func TestGenerateHD(t *testing.T) {
	g, err := NewHD(seed, 0, zerolog.Nop())
	require.NoError(t, err)
	first, err := g.Generate(2)
	require.NoError(t, err)

	// same seed, same accounts
	g, err = NewHD("0x"+seed, 0, zerolog.Nop())
	require.NoError(t, err)
	again, err := g.Generate(2)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.NotEqual(t, first[0].Address, first[1].Address)

	// starting at 1 continues the sequence
	g, err = NewHD(seed, 1, zerolog.Nop())
	require.NoError(t, err)
	next, err := g.Generate(1)
	require.NoError(t, err)
	assert.Equal(t, first[1], next[0])

	for _, a := range first {
		_, err = block.AccountFromHex(a.PrivateKey, a.Address)
		require.NoError(t, err)
	}

	_, err = NewHD("zz", 0, zerolog.Nop())
	assert.Error(t, err)
}
