// Package util contains helper functions used around the code.
package util

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// weiPerEther is 10^18.
var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil) //nolint:gochecknoglobals // constant

// ErrBadAmount is returned when an ether amount cannot be converted to a whole number of wei.
var ErrBadAmount = errors.New("invalid ether amount")

// In returns true if s is found in ss, false otherwise
func In(ss []string, s string) bool {
	for _, v := range ss {
		if s == v {
			return true
		}
	}
	return false
}

// NormalizeKey trims a hex private key and makes sure it carries exactly one 0x prefix.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "0x") || strings.HasPrefix(key, "0X") {
		return "0x" + key[2:]
	}
	return "0x" + key
}

// MaskKey keeps the first and last four hex digits of a key, enough to tell keys apart in the logs.
func MaskKey(key string) string {
	k := strings.TrimPrefix(NormalizeKey(key), "0x")
	if len(k) <= 8 {
		return "0x****"
	}
	return "0x" + k[:4] + "…" + k[len(k)-4:]
}

// ParseEther converts a decimal ether amount (ie. "0.1") to wei. Amounts with more than 18 decimals or negative
// amounts are rejected.
func ParseEther(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)

	r, ok := new(big.Rat).SetString(amount)
	if !ok || r.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadAmount, amount)
	}

	r.Mul(r, new(big.Rat).SetInt(weiPerEther))
	if !r.IsInt() {
		return nil, fmt.Errorf("%w: %q has more than 18 decimals", ErrBadAmount, amount)
	}

	return new(big.Int).Set(r.Num()), nil
}
