// Package main: runner command. For every account in the store it deposits ether into the bridge on the deposit chain
// and then wraps ether and swaps it for DAI on the swap chain.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tarancss/bridgebot/lib/config"
	"github.com/tarancss/bridgebot/lib/logger"
	"github.com/tarancss/bridgebot/lib/msg"
	"github.com/tarancss/bridgebot/lib/msg/amqp"
	"github.com/tarancss/bridgebot/lib/store/db"
	"github.com/tarancss/bridgebot/monitor"
	"github.com/tarancss/bridgebot/pipeline"
	"github.com/tarancss/bridgebot/runner"
)

const (
	FlagConfigFile = "config-file"
	FlagMonitor    = "monitor"
)

var (
	confPath  string
	monitored bool
)

func main() {
	cmd := &cobra.Command{
		Use:   "runner",
		Short: "Run the bridge deposit and swaps for every account",
		Long: `For every account in the configured store, in order: deposit ether into the bridge on the deposit
chain, wait, wrap ether on the swap chain, wait, and swap for DAI through the router. Each step
is skipped when the balance is too low. A failed deposit skips the swaps of that account.

With -m the metrics and outcomes are served on endpoint:port until the process is stopped.

Example:
  runner -c cmd/conf.json -m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&confPath, FlagConfigFile, "c", "", "Path to the JSON configuration file")
	cmd.Flags().BoolVarP(&monitored, FlagMonitor, "m", false, "Serve metrics and outcomes over http")

	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	conf, err := config.ExtractConfiguration(confPath)
	if err != nil {
		return err
	}

	if err = conf.Validate(); err != nil {
		return err
	}

	log, sink, err := logger.New(conf.LogLevel, conf.LogDir, conf.LogUTCOffset, os.Stdout)
	if err != nil {
		return err
	}
	defer sink.Close()

	log.Info().Str("deposit", conf.Deposit.Name).Str("swap", conf.Swap.Name).Str("dbtype", conf.DBType).
		Msg("configuration loaded")

	dbConn, err := db.New(conf.DBType, conf.DBConn)
	if err != nil {
		log.Error().Err(err).Msg("cannot open account store")
		return err
	}
	defer dbConn.Close()

	params, err := pipeline.ParamsFromConfig(conf)
	if err != nil {
		log.Error().Err(err).Msg("invalid pipeline configuration")
		return err
	}

	pipe, err := pipeline.New(params, pipeline.WithLogger(log))
	if err != nil {
		log.Error().Err(err).Msg("cannot build pipeline")
		return err
	}

	mb, err := broker(conf, log)
	if err != nil {
		log.Error().Err(err).Msg("cannot connect to message broker")
		return err
	}
	defer func() {
		if errClose := mb.Close(); errClose != nil {
			log.Error().Err(errClose).Msg("error closing message broker")
		}
	}()

	rep := &runner.Report{}

	// capture CTRL+C or docker's SIGTERM for gracious exit
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, os.Interrupt, syscall.SIGTERM)
		<-sigchan
		log.Warn().Msg("program killed, stopping after the current step")
		cancel()
	}()

	// load monitor
	var mon *monitor.Monitor
	if monitored {
		mon = monitor.New(rep, log)

		go func() {
			if errMon := mon.Init(conf.Endpoint, conf.Port); errMon != nil {
				log.Error().Err(errMon).Msg("monitor stopped")
			}
		}()
	}

	r := runner.New(conf, dbConn, pipe, runner.WithLogger(log), runner.WithBroker(mb), runner.WithReport(rep))

	outs, err := r.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		return err
	}

	completed := 0
	for _, o := range outs {
		if o.Completed() {
			completed++
		}
	}

	log.Info().Int("processed", len(outs)).Int("completed", completed).Int("skipped", len(rep.Skipped())).
		Msg("all accounts processed")

	if mon != nil {
		log.Info().Msg("monitor still serving, press CTRL+C to exit")
		<-ctx.Done()
		mon.Stop()
	}

	return nil
}

// broker returns the configured message broker or msg.Nop.
func broker(conf config.ServiceConfig, log zerolog.Logger) (msg.MsgBroker, error) {
	switch conf.MbType {
	case "amqp":
		mb, err := amqp.New(conf.MbConn, log)
		if err != nil {
			time.Sleep(10 * time.Second) // wait 10s for AMQP to be ready and try to reconnect

			if mb, err = amqp.New(conf.MbConn, log); err != nil {
				return nil, err
			}
		}

		if err = mb.Setup(); err != nil {
			mb.Close()
			return nil, err
		}

		return mb, nil
	default:
		return msg.Nop{}, nil
	}
}
