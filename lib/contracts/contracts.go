// Package contracts holds the interface descriptors of the contracts the pipeline calls and the constant swap payload
// sent to the router. They are versioned together: any change to the router payload bumps Version.
package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Version of the descriptors and payload below.
const Version = "v1"

// Method names called by the pipeline.
const (
	DepositETH = "depositETH"
	Deposit    = "deposit"
	Execute    = "execute"
)

// BridgeABI is the deposit side of the L1 standard bridge.
const BridgeABI = `[
{"inputs":[{"internalType":"uint32","name":"_minGasLimit","type":"uint32"},{"internalType":"bytes","name":"_extraData","type":"bytes"}],"name":"depositETH","outputs":[],"stateMutability":"payable","type":"function"},
{"inputs":[{"internalType":"address","name":"_to","type":"address"},{"internalType":"uint32","name":"_minGasLimit","type":"uint32"},{"internalType":"bytes","name":"_extraData","type":"bytes"}],"name":"depositETHTo","outputs":[],"stateMutability":"payable","type":"function"}
]`

// WETHABI is the subset of WETH9 used to wrap ether.
const WETHABI = `[
{"constant":false,"inputs":[],"name":"deposit","outputs":[],"payable":true,"stateMutability":"payable","type":"function"},
{"constant":false,"inputs":[{"name":"wad","type":"uint256"}],"name":"withdraw","outputs":[],"payable":false,"stateMutability":"nonpayable","type":"function"},
{"constant":true,"inputs":[{"name":"","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

// RouterABI is the deadline variant of the universal router entry point.
const RouterABI = `[
{"inputs":[{"internalType":"bytes","name":"commands","type":"bytes"},{"internalType":"bytes[]","name":"inputs","type":"bytes[]"},{"internalType":"uint256","name":"deadline","type":"uint256"}],"name":"execute","outputs":[],"stateMutability":"payable","type":"function"}
]`

// swapCommands are the router commands: 0x0b wraps ether, 0x00 swaps exact input on a v3 pool.
const swapCommands = "\x0b\x00"

// SwapCommands returns a fresh copy of the router commands.
func SwapCommands() []byte {
	return []byte(swapCommands)
}

// swapInputs are the ABI encoded arguments of each command in swapCommands. The second one carries the WETH->DAI
// path (0x0c8afd…dc3a, fee 3000, 0xec46e0…f13e).
var swapInputs = []string{ //nolint:gochecknoglobals // constant payload
	"0x000000000000000000000000000000000000000000000000000000000000000200000000000000000000000000000000000000000000000000005af3107a4000",
	"0x000000000000000000000000000000000000000000000000000000000000000100000000000000000000000000000000000000000000000000005af3107a4000000000000000000000000000000000000000000000000000457fd60a0614bb5400000000000000000000000000000000000000000000000000000000000000a00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000002b0c8afd1b58aa2a5bad2414b861d8a7ff898edc3a000bb8ec46e0efb2ea8152da0327a5eb3ff9a43956f13e000000000000000000000000000000000000000000",
}

// SwapInputs returns a fresh copy of the router inputs so callers cannot alter the constant payload.
func SwapInputs() [][]byte {
	in := make([][]byte, len(swapInputs))
	for i, s := range swapInputs {
		in[i] = common.FromHex(s)
	}
	return in
}

// Set contains the parsed descriptors.
type Set struct {
	Bridge abi.ABI
	WETH   abi.ABI
	Router abi.ABI
}

// Parse parses the three descriptors.
func Parse() (Set, error) {
	var (
		s   Set
		err error
	)
	if s.Bridge, err = abi.JSON(strings.NewReader(BridgeABI)); err != nil {
		return s, err
	}
	if s.WETH, err = abi.JSON(strings.NewReader(WETHABI)); err != nil {
		return s, err
	}
	s.Router, err = abi.JSON(strings.NewReader(RouterABI))

	return s, err
}
