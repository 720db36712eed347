// Package block defines the interface required for all blockchain or network connections.
package block

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tarancss/bridgebot/lib/block/ethereum"
	"github.com/tarancss/bridgebot/lib/block/types"
	"github.com/tarancss/bridgebot/lib/config"
	"github.com/tarancss/bridgebot/lib/util"
)

// Chain binds one account to one network. It has the minimal set of methods the pipeline needs to move value and
// call contracts.
type Chain interface {
	Name() string
	Close()
	Balance(ctx context.Context, address common.Address) (*big.Int, error)
	EncodeCall(desc abi.ABI, fn string, args ...interface{}) ([]byte, error)
	Send(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error)
}

// Account is the signing context passed alongside a Chain.
type Account = types.Account

// Dialer returns a Chain for the given network config bound to acct.
type Dialer func(ctx context.Context, cfg config.ChainConfig, acct Account) (Chain, error)

// Dial is the default Dialer. It picks the implementation from cfg.Kind.
func Dial(ctx context.Context, cfg config.ChainConfig, acct Account) (Chain, error) {
	switch cfg.Kind {
	case "", "evm":
		e, err := ethereum.Dial(ctx, cfg.Name, cfg.Node, cfg.ChainID, acct)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("[%s] %w: %s", cfg.Name, types.ErrUnknownKind, cfg.Kind)
	}
}

// AccountFromHex normalises a hex private key and derives its account. When expected is not empty the derived
// address must match it.
func AccountFromHex(key, expected string) (Account, error) {
	k := util.NormalizeKey(key)

	pk, err := crypto.HexToECDSA(k[2:])
	if err != nil {
		return Account{}, fmt.Errorf("%w: %v", types.ErrInvalidKey, err)
	}

	acct := Account{Address: crypto.PubkeyToAddress(pk.PublicKey), Key: pk}

	if expected != "" && !strings.EqualFold(expected, acct.Address.Hex()) {
		return Account{}, fmt.Errorf("%w: derived address %s does not match %s", types.ErrInvalidKey,
			acct.Address.Hex(), expected)
	}

	return acct, nil
}
