package util

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"abcd":       "0xabcd",
		"0xabcd":     "0xabcd",
		"0Xabcd":     "0xabcd",
		"  0xabcd\n": "0xabcd",
		"":           "0x",
	}
	for in, exp := range cases {
		assert.Equal(t, exp, NormalizeKey(in), "NormalizeKey(%q)", in)
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "0x4c08…c5e3", MaskKey("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f36c5e3"))
	assert.Equal(t, "0x****", MaskKey("0x1234"))
}

func TestParseEther(t *testing.T) {
	cases := []struct {
		in  string
		exp string
	}{
		{"0.1", "100000000000000000"},
		{"0.00001", "10000000000000"},
		{"1", "1000000000000000000"},
		{"0", "0"},
		{" 2.5 ", "2500000000000000000"},
	}
	for _, c := range cases {
		got, err := ParseEther(c.in)
		require.NoError(t, err, c.in)

		exp, _ := new(big.Int).SetString(c.exp, 10)
		assert.Equal(t, 0, exp.Cmp(got), "ParseEther(%q)=%s", c.in, got)
	}

	for _, bad := range []string{"", "abc", "-1", "0.0000000000000000001"} {
		_, err := ParseEther(bad)
		assert.True(t, errors.Is(err, ErrBadAmount), "ParseEther(%q) err:%v", bad, err)
	}
}

func TestIn(t *testing.T) {
	assert.True(t, In([]string{"a", "b"}, "b"))
	assert.False(t, In(nil, "b"))
}
