// Package ethereum implements the Chain interface for ethereum-type networks on top of go-ethereum's ethclient.
package ethereum

import (
	"context"
	"fmt"
	"math/big"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/tarancss/bridgebot/lib/block/types"
)

// Backend is the subset of *ethclient.Client used by Ethereum.
type Backend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg geth.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *gtypes.Transaction) error
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

var _ Backend = (*ethclient.Client)(nil)

// Ethereum implements a connection to an ethereum-type chain bound to one account.
type Ethereum struct {
	name   string
	c      Backend
	acct   types.Account
	signer gtypes.Signer
}

// Dial connects to the node url and returns a client for network name bound to acct. When chainID is 0 it is
// queried from the node.
func Dial(ctx context.Context, name, node string, chainID uint64, acct types.Account) (*Ethereum, error) {
	c, err := ethclient.DialContext(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("[%s] cannot connect to ethereum node in %s: %w", name, node, err)
	}

	return New(ctx, name, c, chainID, acct)
}

// New returns a client over an existing backend.
func New(ctx context.Context, name string, c Backend, chainID uint64, acct types.Account) (*Ethereum, error) {
	id := new(big.Int).SetUint64(chainID)

	if chainID == 0 {
		var err error
		if id, err = c.ChainID(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("[%s] cannot get chain id: %w", name, err)
		}
	}

	return &Ethereum{
		name:   name,
		c:      c,
		acct:   acct,
		signer: gtypes.LatestSignerForChainID(id),
	}, nil
}

// Name returns the network name.
func (e *Ethereum) Name() string {
	return e.name
}

// Close ends a connection
func (e *Ethereum) Close() {
	e.c.Close()
}

// Balance returns the ether balance of address at the latest block.
func (e *Ethereum) Balance(ctx context.Context, address common.Address) (*big.Int, error) {
	return e.c.BalanceAt(ctx, address, nil)
}

// EncodeCall encodes a call to fn with args as described by desc.
func (e *Ethereum) EncodeCall(desc abi.ABI, fn string, args ...interface{}) ([]byte, error) {
	return EncodeCall(desc, fn, args...)
}

// Send signs a transaction from the bound account carrying value and data to address to, and submits it. The
// returned hash only means the node accepted the transaction.
func (e *Ethereum) Send(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error) {
	from := e.acct.Address

	nonce, err := e.c.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, submissionErr("nonce", err)
	}

	price, err := e.c.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, submissionErr("gas price", err)
	}

	gas, err := e.c.EstimateGas(ctx, geth.CallMsg{From: from, To: &to, Value: value, Data: data})
	if err != nil {
		return common.Hash{}, submissionErr("estimate gas", err)
	}

	tx := gtypes.NewTx(&gtypes.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gas,
		GasPrice: price,
		Data:     data,
	})

	signed, err := gtypes.SignTx(tx, e.signer, e.acct.Key)
	if err != nil {
		return common.Hash{}, submissionErr("sign", err)
	}

	if err = e.c.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, submissionErr("send", err)
	}

	return signed.Hash(), nil
}

// EncodeCall is the pure encoding behind Ethereum.EncodeCall. Identical inputs always give identical bytes.
func EncodeCall(desc abi.ABI, fn string, args ...interface{}) ([]byte, error) {
	if _, ok := desc.Methods[fn]; !ok {
		return nil, fmt.Errorf("%w: method %q not found", types.ErrEncoding, fn)
	}

	data, err := desc.Pack(fn, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrEncoding, fn, err)
	}

	return data, nil
}

func submissionErr(stage string, err error) error {
	return fmt.Errorf("%w: %s: %v", types.ErrSubmission, stage, err)
}
