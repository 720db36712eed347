package pipeline

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tarancss/bridgebot/lib/config"
	"github.com/tarancss/bridgebot/lib/util"
)

// Params are the constants of every run: values in wei, contract addresses and timings.
type Params struct {
	DepositValue *big.Int
	WethValue    *big.Int
	DaiValue     *big.Int

	// depositETH arguments
	MinGasLimit uint32
	ExtraData   []byte

	// Delay is the pause between consecutive steps.
	Delay time.Duration
	// DeadlineWindow is added to the current time to get the router deadline.
	DeadlineWindow time.Duration

	Bridge common.Address
	Weth   common.Address
	Router common.Address

	// MaskKeys hides most of the private key in the logs.
	MaskKeys bool
}

// ParamsFromConfig converts the configured amounts and addresses.
func ParamsFromConfig(conf config.ServiceConfig) (Params, error) {
	var (
		p   Params
		err error
	)

	pc := conf.Pipeline

	if p.DepositValue, err = util.ParseEther(pc.DepositAmount); err != nil {
		return p, fmt.Errorf("deposit amount: %w", err)
	}
	if p.WethValue, err = util.ParseEther(pc.WethAmount); err != nil {
		return p, fmt.Errorf("weth amount: %w", err)
	}
	if p.DaiValue, err = util.ParseEther(pc.DaiAmount); err != nil {
		return p, fmt.Errorf("dai amount: %w", err)
	}

	p.ExtraData = []byte{}
	if extra := strings.TrimSpace(pc.ExtraData); extra != "" {
		if p.ExtraData, err = hexutil.Decode(extra); err != nil {
			return p, fmt.Errorf("extra data %q: %w", extra, err)
		}
	}

	for _, a := range []struct {
		name string
		hex  string
		dst  *common.Address
	}{
		{"bridge", conf.Deposit.Bridge, &p.Bridge},
		{"weth", conf.Swap.Weth, &p.Weth},
		{"router", conf.Swap.Router, &p.Router},
	} {
		if !common.IsHexAddress(a.hex) {
			return p, fmt.Errorf("%s address %q is not valid", a.name, a.hex)
		}
		*a.dst = common.HexToAddress(a.hex)
	}

	p.MinGasLimit = pc.MinGasLimit
	p.Delay = time.Duration(pc.DelayMs) * time.Millisecond
	p.DeadlineWindow = time.Duration(pc.DeadlineSecs) * time.Second
	p.MaskKeys = conf.MaskKeys

	return p, nil
}
