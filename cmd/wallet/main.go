// Package main: wallet command. It creates accounts, random or derived from the configured HD seed, and appends them
// to the account store the runner reads.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tarancss/bridgebot/generator"
	"github.com/tarancss/bridgebot/lib/config"
	"github.com/tarancss/bridgebot/lib/logger"
	"github.com/tarancss/bridgebot/lib/store"
	"github.com/tarancss/bridgebot/lib/store/db"
)

const (
	FlagConfigFile = "config-file"
	FlagCount      = "count"
	FlagHD         = "hd"
)

var (
	confPath string
	count    int
	useHD    bool
)

func main() {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Generate wallets for bridgebot",
		Long: `Generate wallets and append them to the configured account store (a JSON or JS file, MongoDB or
PostgreSQL). When no count is given it is asked for on the terminal.

Example:
  wallet -c cmd/conf.json -n 10 --hd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&confPath, FlagConfigFile, "c", "", "Path to the JSON configuration file")
	cmd.Flags().IntVarP(&count, FlagCount, "n", 0, "Number of wallets to generate, asked for when 0")
	cmd.Flags().BoolVar(&useHD, FlagHD, false, "Derive the wallets from the configured HD seed")

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

	log, sink, err := logger.New(conf.LogLevel, conf.LogDir, conf.LogUTCOffset, os.Stdout)
	if err != nil {
		return err
	}
	defer sink.Close()

	dbConn, err := db.New(conf.DBType, conf.DBConn)
	if err != nil {
		log.Error().Err(err).Str("dbtype", conf.DBType).Msg("cannot open account store")
		return err
	}
	defer dbConn.Close()

	if count == 0 {
		if count, err = generator.PromptCount(os.Stdin, os.Stdout); err != nil {
			log.Error().Err(err).Msg("invalid wallet count")
			return err
		}
	}

	g := generator.New(log)

	if useHD {
		// continue the derivation after the accounts already stored
		existing, err := dbConn.LoadAccounts()
		if err != nil && !errors.Is(err, store.ErrDataNotFound) {
			log.Error().Err(err).Msg("cannot read account store")
			return err
		}

		if g, err = generator.NewHD(conf.Seed, uint32(len(existing)), log); err != nil {
			log.Error().Err(err).Msg("cannot load HD wallet")
			return err
		}
	}

	accs, err := g.Generate(count)
	if err != nil {
		log.Error().Err(err).Msg("cannot generate wallets")
		return err
	}

	if err = dbConn.SaveAccounts(accs); err != nil {
		log.Error().Err(err).Str("dbconn", conf.DBConn).Msg("cannot save wallets")
		return err
	}

	log.Info().Int("count", len(accs)).Str("dbtype", conf.DBType).Str("dbconn", conf.DBConn).Msg("wallets saved")

	return nil
}
