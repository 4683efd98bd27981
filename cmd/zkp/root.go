package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zkp.mleku.dev/bridge"
	"zkp.mleku.dev/config"
)

// app holds what PersistentPreRunE builds for the subcommands.
type app struct {
	configPath string
	logLevel   string

	logger *zap.Logger
	bridge *bridge.Bridge
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "zkp",
		Short: "secp256k1 keys, commitments, range proofs and aggregated signatures",
		Long: `zkp works with secp256k1 keys, Pedersen commitments, bulletproof range
proofs and aggregated Schnorr-style signatures. Every byte argument and result
is hex; values are decimal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (defaults apply when empty)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		newKeyCmd(a),
		newCommitCmd(a),
		newBulletproofCmd(a),
		newSignCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.logger, err = cfg.CreateLogger(a.logLevel)
	if err != nil {
		return err
	}
	lc, err := cfg.NewLazyContext(a.logger)
	if err != nil {
		return err
	}
	a.bridge = bridge.New(lc)
	a.logger.Debug("config loaded",
		zap.String("path", a.configPath),
		zap.String("random", cfg.Random.Source))
	return nil
}

// printLine writes one result line.
func printLine(cmd *cobra.Command, out string, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func printBool(cmd *cobra.Command, ok bool, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
	return err
}
