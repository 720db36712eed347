// Package msg defines the interface for different message brokers.
//
// The runner publishes every transaction the pipeline sends so other services can follow the accounts.
package msg

import (
	"github.com/tarancss/bridgebot/lib/block/types"
)

// Exchange is the topic exchange transaction events are published to. Routing keys are "<net>.<step>.<hash>".
const Exchange = "te"

// MsgBroker defines the methods a broker implementation provides.
type MsgBroker interface {
	Setup() error
	Close() error

	// SendTrans publishes the transactions sent on network net.
	SendTrans(net string, t []types.Trans) error
}

// Nop is the broker used when none is configured. It drops every event.
type Nop struct{}

func (Nop) Setup() error { return nil }
func (Nop) Close() error { return nil }
func (Nop) SendTrans(string, []types.Trans) error { return nil }
