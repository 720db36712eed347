// Package amqp implements the message broker interface for AMQP compliant brokers (ie RabbitMQ)
package amqp

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/tarancss/bridgebot/lib/block/types"
	"github.com/tarancss/bridgebot/lib/msg"
)

// Amqp implements a connection to a broker and a channel for reuse.
type Amqp struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  zerolog.Logger
}

var _ msg.MsgBroker = (*Amqp)(nil)

// New instantiates a new amqp broker.
func New(uri string, log zerolog.Logger) (*Amqp, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}

	log.Info().Msg("connected to message broker")

	return &Amqp{conn: conn, log: log}, nil
}

// Setup declares the transaction events exchange.
func (r *Amqp) Setup() error {
	// obtain a one-use channel
	channel, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer channel.Close()

	return channel.ExchangeDeclare(msg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil)
}

// Close terminates gracefully the connection to the AMQP message broker
func (r *Amqp) Close() error {
	if r.ch != nil {
		if err := r.ch.Close(); err != nil {
			r.log.Error().Err(err).Msg("error closing amqp channel")
		}
		r.ch = nil
	}

	return r.conn.Close()
}

func (r *Amqp) channel() (err error) {
	if r.ch == nil {
		r.ch, err = r.conn.Channel()
	}

	return
}

// SendTrans publishes transaction events to the exchange, one message per transaction.
func (r *Amqp) SendTrans(net string, txs []types.Trans) (err error) {
	for _, t := range txs {
		// marshal to JSON
		var jsonDoc []byte
		if jsonDoc, err = json.Marshal(t); err != nil {
			return
		}
		// obtain channel if not present
		if err = r.channel(); err != nil {
			return
		}
		// build body
		m := amqp.Publishing{
			Headers:     amqp.Table{"x-trans-name": net + "." + t.Hash},
			Body:        jsonDoc,
			ContentType: "application/json",
		}
		// publish
		if err = r.ch.Publish(msg.Exchange, net+"."+t.Step+"."+t.Hash, false, false, m); err != nil {
			r.log.Error().Err(err).Str("net", net).Str("hash", t.Hash).Msg("error sending transaction event")
			return
		}
	}

	return
}
