// Package runner drives a run: it loads the accounts from the store and, one account at a time, validates its key,
// dials both chains and runs the pipeline. Failures are logged and the run moves on to the next account.
package runner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tarancss/bridgebot/lib/block"
	"github.com/tarancss/bridgebot/lib/block/types"
	"github.com/tarancss/bridgebot/lib/config"
	"github.com/tarancss/bridgebot/lib/metrics"
	"github.com/tarancss/bridgebot/lib/msg"
	"github.com/tarancss/bridgebot/lib/store"
	"github.com/tarancss/bridgebot/lib/util"
	"github.com/tarancss/bridgebot/pipeline"
)

// Account results counted in metrics.AccountsTotal.
const (
	ResultCompleted  = "completed"
	ResultFailed     = "failed"
	ResultInvalidKey = "invalid_key"
	ResultDialError  = "dial_error"
)

// Runner processes all the accounts in a store.
type Runner struct {
	conf   config.ServiceConfig
	db     store.DB
	pipe   *pipeline.Pipeline
	dial   block.Dialer
	log    zerolog.Logger
	mb     msg.MsgBroker
	report *Report
}

// Option configures a Runner.
type Option func(*Runner)

// WithDialer replaces block.Dial.
func WithDialer(d block.Dialer) Option {
	return func(r *Runner) { r.dial = d }
}

// WithLogger sets the logger. The default discards all entries.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithBroker publishes the sent transactions to mb.
func WithBroker(mb msg.MsgBroker) Option {
	return func(r *Runner) { r.mb = mb }
}

// WithReport records the results in rep.
func WithReport(rep *Report) Option {
	return func(r *Runner) { r.report = rep }
}

// New returns a runner over the accounts in db.
func New(conf config.ServiceConfig, db store.DB, pipe *pipeline.Pipeline, opts ...Option) *Runner {
	r := &Runner{
		conf:   conf,
		db:     db,
		pipe:   pipe,
		dial:   block.Dial,
		log:    zerolog.Nop(),
		mb:     msg.Nop{},
		report: &Report{},
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Report returns the report the runner writes to.
func (r *Runner) Report() *Report {
	return r.report
}

// Run processes the accounts sequentially and returns the outcome of every account the pipeline ran for. Only a
// failure to load the accounts is returned as an error. Run stops early when ctx is done.
func (r *Runner) Run(ctx context.Context) ([]pipeline.Outcome, error) {
	accs, err := r.db.LoadAccounts()
	if err != nil {
		return nil, fmt.Errorf("cannot load accounts: %w", err)
	}

	r.log.Info().Int("accounts", len(accs)).Str("deposit", r.conf.Deposit.Name).Str("swap", r.conf.Swap.Name).
		Msg("run started")

	var outs []pipeline.Outcome

	for i, rec := range accs {
		if ctx.Err() != nil {
			r.log.Warn().Err(ctx.Err()).Int("remaining", len(accs)-i).Msg("run interrupted")
			break
		}

		if o, ok := r.account(ctx, i, rec); ok {
			outs = append(outs, o)
		}
	}

	r.log.Info().Int("processed", len(outs)).Msg("run finished")

	return outs, nil
}

// account runs the pipeline for one record. It returns false when the account was skipped.
func (r *Runner) account(ctx context.Context, i int, rec store.Account) (pipeline.Outcome, bool) {
	log := r.log.With().Int("index", i).Str("account", rec.Address).Str("privateKey", r.privateKey(rec)).Logger()

	acct, err := block.AccountFromHex(rec.PrivateKey, rec.Address)
	if err != nil {
		r.skip(log, rec, ResultInvalidKey, err)
		return pipeline.Outcome{}, false
	}

	deposit, err := r.dial(ctx, r.conf.Deposit, acct)
	if err != nil {
		r.skip(log, rec, ResultDialError, err)
		return pipeline.Outcome{}, false
	}
	defer deposit.Close()

	swap, err := r.dial(ctx, r.conf.Swap, acct)
	if err != nil {
		r.skip(log, rec, ResultDialError, err)
		return pipeline.Outcome{}, false
	}
	defer swap.Close()

	out := r.pipe.Run(ctx, acct, deposit, swap)

	for _, s := range pipeline.Steps {
		metrics.StepsTotal.WithLabelValues(s.String(), out.Result(s).Status.String()).Inc()
	}

	result := ResultFailed
	if out.Completed() {
		result = ResultCompleted
	}
	metrics.AccountsTotal.WithLabelValues(result).Inc()

	for net, txs := range out.Trans() {
		if err = r.mb.SendTrans(net, txs); err != nil {
			log.Error().Err(err).Str("net", net).Msg("cannot publish transactions")
		}
	}

	r.report.Add(out)
	log.Info().Str("summary", out.Summary()).Msg("account processed")

	return out, true
}

func (r *Runner) skip(log zerolog.Logger, rec store.Account, result string, err error) {
	log.Error().Err(err).Str("kind", types.Kind(err)).Msg("account skipped")
	metrics.AccountsTotal.WithLabelValues(result).Inc()
	r.report.Skip(rec.Address, err)
}

func (r *Runner) privateKey(rec store.Account) string {
	if r.conf.MaskKeys {
		return util.MaskKey(rec.PrivateKey)
	}

	return rec.PrivateKey
}
