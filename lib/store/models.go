package store

import "strings"

// Account contains the fields for an account saved to DB.
type Account struct {
	Address    string `json:"address" bson:"address"`
	PrivateKey string `json:"privateKey" bson:"privateKey"`
	PublicKey  string `json:"publicKey" bson:"publicKey"`
}

// AddressKey is the form addresses are compared in: trimmed and lowercase, so a checksummed and a lowercase copy of
// the same address are one account.
func AddressKey(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
