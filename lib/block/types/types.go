// Package types common blockchain types.
package types

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Trans contains the fields of a transaction sent by the pipeline. It is the payload of the events published to the
// message broker.
type Trans struct {
	Net   string `json:"net"`
	Step  string `json:"step"`
	Hash  string `json:"hash"`
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data,omitempty"`
	TS    int64  `json:"ts"`
}

// Error kinds. Callers wrap them with context and match them with errors.Is.
var (
	ErrInvalidKey          = errors.New("private key does not resolve to an account")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrEncoding            = errors.New("cannot encode contract call")
	ErrSubmission          = errors.New("cannot submit transaction")
	ErrUnknownKind         = errors.New("chain kind not supported")
)

// Account is a signing identity: the private key and the address derived from it.
type Account struct {
	Address common.Address
	Key     *ecdsa.PrivateKey
}

// Kind returns the name logged for the error kind of err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidKey):
		return "InvalidKeyError"
	case errors.Is(err, ErrInsufficientBalance):
		return "InsufficientBalanceError"
	case errors.Is(err, ErrEncoding):
		return "EncodingError"
	case errors.Is(err, ErrSubmission):
		return "SubmissionError"
	default:
		return "Error"
	}
}
