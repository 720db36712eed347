package pipeline

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tarancss/bridgebot/lib/block/types"
)

// Step identifies one transaction of the pipeline.
type Step int

// Steps in execution order.
const (
	Deposit Step = iota
	WethSwap
	DaiSwap
)

// Steps lists the steps in execution order.
var Steps = []Step{Deposit, WethSwap, DaiSwap} //nolint:gochecknoglobals // constant

func (s Step) String() string {
	switch s {
	case Deposit:
		return "deposit"
	case WethSwap:
		return "weth_swap"
	case DaiSwap:
		return "dai_swap"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Status of a step.
type Status int

// Step statuses. Pending is only seen on a step that never ran.
const (
	Pending Status = iota
	Done
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "pending"
}

// StepResult is the result of one step. TxHash, Value and Data are only meaningful when Status is Done.
type StepResult struct {
	Status Status
	Net    string
	TxHash common.Hash
	To     common.Address
	Value  *big.Int
	Data   []byte
	TS     int64
	Err    error
}

// MarshalJSON renders the result for the outcomes report.
func (r StepResult) MarshalJSON() ([]byte, error) {
	v := struct {
		Status string `json:"status"`
		Net    string `json:"net,omitempty"`
		TxHash string `json:"txHash,omitempty"`
		Kind   string `json:"kind,omitempty"`
		Error  string `json:"error,omitempty"`
	}{Status: r.Status.String(), Net: r.Net, Kind: types.Kind(r.Err)}

	if r.Status == Done {
		v.TxHash = r.TxHash.Hex()
	}
	if r.Err != nil {
		v.Error = r.Err.Error()
	}

	return json.Marshal(v)
}

// Outcome aggregates the results of the three steps for one account.
type Outcome struct {
	Account  common.Address `json:"account"`
	Deposit  StepResult     `json:"deposit"`
	WethSwap StepResult     `json:"wethSwap"`
	DaiSwap  StepResult     `json:"daiSwap"`
}

// Result returns a pointer to the result of step s.
func (o *Outcome) Result(s Step) *StepResult {
	switch s {
	case WethSwap:
		return &o.WethSwap
	case DaiSwap:
		return &o.DaiSwap
	}
	return &o.Deposit
}

// Completed is true when the three transactions were sent.
func (o Outcome) Completed() bool {
	return o.Deposit.Status == Done && o.WethSwap.Status == Done && o.DaiSwap.Status == Done
}

// Summary returns "deposit=done weth_swap=failed dai_swap=done" style text. Steps that never ran are left out.
func (o Outcome) Summary() string {
	parts := make([]string, 0, len(Steps))
	for _, s := range Steps {
		if st := o.Result(s).Status; st == Done || st == Failed {
			parts = append(parts, s.String()+"="+st.String())
		}
	}
	return strings.Join(parts, " ")
}

// Trans returns the sent transactions grouped by network, in step order.
func (o Outcome) Trans() map[string][]types.Trans {
	txs := make(map[string][]types.Trans)

	for _, s := range Steps {
		r := o.Result(s)
		if r.Status != Done {
			continue
		}

		t := types.Trans{
			Net:  r.Net,
			Step: s.String(),
			Hash: r.TxHash.Hex(),
			From: o.Account.Hex(),
			To:   r.To.Hex(),
			TS:   r.TS,
		}
		if r.Value != nil {
			t.Value = r.Value.String()
		}
		if len(r.Data) > 0 {
			t.Data = hexutil.Encode(r.Data)
		}

		txs[r.Net] = append(txs[r.Net], t)
	}

	return txs
}
