// Package pipeline runs the transactions of one account: an ether deposit into the bridge on the deposit chain, then
// a WETH wrap and a DAI swap on the swap chain.
//
// Every step reads the account balance first and is not attempted when the balance is below the value to send. A
// failed deposit skips both swaps. A failed WETH wrap does not stop the DAI swap. Nothing is retried and no receipt is
// awaited: a step is done once the node accepts the transaction.
package pipeline

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"

	"github.com/tarancss/bridgebot/lib/block"
	"github.com/tarancss/bridgebot/lib/block/types"
	"github.com/tarancss/bridgebot/lib/contracts"
	"github.com/tarancss/bridgebot/lib/util"
)

// SleepFunc pauses for d. It returns early with an error when ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pipeline holds the parameters and parsed contract interfaces shared by all accounts.
type Pipeline struct {
	p     Params
	abis  contracts.Set
	log   zerolog.Logger
	sleep SleepFunc
	now   func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards all entries.
func WithLogger(l zerolog.Logger) Option {
	return func(pl *Pipeline) { pl.log = l }
}

// WithSleep replaces the pause between steps.
func WithSleep(f SleepFunc) Option {
	return func(pl *Pipeline) { pl.sleep = f }
}

// WithClock replaces the clock used for the router deadline and event timestamps.
func WithClock(f func() time.Time) Option {
	return func(pl *Pipeline) { pl.now = f }
}

// New parses the contract interfaces and returns a pipeline for params.
func New(params Params, opts ...Option) (*Pipeline, error) {
	abis, err := contracts.Parse()
	if err != nil {
		return nil, fmt.Errorf("cannot parse contract interfaces %s: %w", contracts.Version, err)
	}

	pl := &Pipeline{
		p:     params,
		abis:  abis,
		log:   zerolog.Nop(),
		sleep: Sleep,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(pl)
	}

	return pl, nil
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run executes the three steps for acct. deposit and swap must be bound to acct.
func (pl *Pipeline) Run(ctx context.Context, acct block.Account, deposit, swap block.Chain) Outcome {
	out := Outcome{Account: acct.Address}
	log := pl.log.With().Str("account", acct.Address.Hex()).Str("privateKey", pl.privateKey(acct)).Logger()

	out.Deposit = pl.step(ctx, log, Deposit, deposit, acct.Address)
	if out.Deposit.Status != Done {
		out.WethSwap.Status, out.DaiSwap.Status = Skipped, Skipped
		return out
	}

	if err := pl.sleep(ctx, pl.p.Delay); err != nil {
		log.Warn().Err(err).Msg("run interrupted, skipping swaps")
		out.WethSwap.Status, out.DaiSwap.Status = Skipped, Skipped
		return out
	}

	out.WethSwap = pl.step(ctx, log, WethSwap, swap, acct.Address)

	if err := pl.sleep(ctx, pl.p.Delay); err != nil {
		log.Warn().Err(err).Msg("run interrupted, skipping dai swap")
		out.DaiSwap.Status = Skipped
		return out
	}

	out.DaiSwap = pl.step(ctx, log, DaiSwap, swap, acct.Address)

	return out
}

// call is the contract call made by a step.
type call struct {
	to    common.Address
	value *big.Int
	desc  abi.ABI
	fn    string
	args  []interface{}
}

func (pl *Pipeline) call(s Step) call {
	switch s {
	case WethSwap:
		return call{to: pl.p.Weth, value: pl.p.WethValue, desc: pl.abis.WETH, fn: contracts.Deposit}
	case DaiSwap:
		deadline := big.NewInt(pl.now().Add(pl.p.DeadlineWindow).Unix())
		return call{
			to: pl.p.Router, value: pl.p.DaiValue, desc: pl.abis.Router, fn: contracts.Execute,
			args: []interface{}{contracts.SwapCommands(), contracts.SwapInputs(), deadline},
		}
	default:
		return call{
			to: pl.p.Bridge, value: pl.p.DepositValue, desc: pl.abis.Bridge, fn: contracts.DepositETH,
			args: []interface{}{pl.p.MinGasLimit, pl.p.ExtraData},
		}
	}
}

// step checks the balance of from on c and sends the call of step s.
func (pl *Pipeline) step(ctx context.Context, log zerolog.Logger, s Step, c block.Chain, from common.Address) StepResult {
	cl := pl.call(s)
	res := StepResult{Net: c.Name(), To: cl.to, Value: cl.value}
	log = log.With().Str("step", s.String()).Str("net", res.Net).Logger()

	fail := func(err error) StepResult {
		res.Status, res.Err = Failed, err
		log.Error().Err(err).Str("kind", types.Kind(err)).Msg("step failed")
		return res
	}

	bal, err := c.Balance(ctx, from)
	if err != nil {
		return fail(fmt.Errorf("cannot read balance: %w", err))
	}

	log.Debug().Str("balance", bal.String()).Str("required", cl.value.String()).Msg("balance checked")

	if bal.Cmp(cl.value) < 0 {
		return fail(fmt.Errorf("%w: balance %s wei, required %s wei", types.ErrInsufficientBalance, bal, cl.value))
	}

	data, err := c.EncodeCall(cl.desc, cl.fn, cl.args...)
	if err != nil {
		return fail(err)
	}

	hash, err := c.Send(ctx, cl.to, data, cl.value)
	if err != nil {
		return fail(err)
	}

	res.Status, res.TxHash, res.Data, res.TS = Done, hash, data, pl.now().Unix()
	log.Info().Str("txHash", hash.Hex()).Msg("transaction sent")

	return res
}

func (pl *Pipeline) privateKey(acct block.Account) string {
	if acct.Key == nil {
		return ""
	}

	k := hexutil.Encode(crypto.FromECDSA(acct.Key))
	if pl.p.MaskKeys {
		return util.MaskKey(k)
	}

	return k
}
