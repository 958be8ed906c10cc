// Command agentfundd is the reference CLI front-end for the
// agentfund-protocol account store, following the teacher's cmd/cli
// convention (one cobra subcommand tree per component, a package-level
// lazily-initialized store handle, hex-decoded address/id arguments).
//
// It is the external collaborator spec.md's §6 entry-point table assumes
// exists but does not itself specify; its own behavior carries no
// protocol invariants beyond the core package it calls into.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tigurius/agentfund-protocol/core"
	cliconfig "github.com/tigurius/agentfund-protocol/internal/config"
	pkgconfig "github.com/tigurius/agentfund-protocol/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "agentfundd",
	Short: "agentfund-protocol account store CLI",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// cmd/config/default.yaml is optional: flags and AGENTFUND_*
		// env vars already cover standalone invocation, so a missing
		// file is not fatal, only a missed opportunity to set defaults.
		if cfg, err := pkgconfig.LoadFromEnv(); err != nil {
			logrus.WithError(err).Debug("no config file loaded, using flags/env only")
		} else {
			applyLimits(cfg)
		}

		level, err := logrus.ParseLevel(viper.GetString("LOG_LEVEL"))
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
}

// applyLimits pushes the loaded config's protocol-wide limits into the
// core package's overridable vars. Zero means "not set in the config
// file", so the core package's own spec-derived defaults stand.
func applyLimits(cfg *pkgconfig.Config) {
	if cfg.Limits.MaxBatch > 0 {
		core.MaxBatch = cfg.Limits.MaxBatch
	}
	if cfg.Limits.DisputeWindow > 0 {
		core.DisputeWindow = cfg.Limits.DisputeWindow
	}
	if cfg.Store.CacheSize > 0 {
		core.CacheSize = cfg.Store.CacheSize
	}
}

func init() {
	cliconfig.RegisterFlags(rootCmd)
	rootCmd.AddCommand(treasuryCmd, invoiceCmd, batchCmd, agentCmd, requestCmd, disputeCmd, streamCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
