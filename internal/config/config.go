// Package config binds cmd/agentfundd's persistent command-line flags to
// the viper keys the CLI reads back (STORE_PATH, LOG_LEVEL), following the teacher's
// cmd/cli convention of sourcing every handle (ledger path, node config)
// from viper rather than threading flag values through call signatures.
package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Default values used when neither a flag nor an environment variable
// supplies one, matching pkg/config.Config's own field set.
const (
	DefaultStorePath = "agentfund.wal"
	DefaultLogLevel  = "info"
)

// RegisterFlags adds the persistent flags shared by every agentfundd
// subcommand and binds them to the viper keys the store/CLI layer reads:
// STORE_PATH and LOG_LEVEL.
func RegisterFlags(root *cobra.Command) {
	root.PersistentFlags().String("store", DefaultStorePath, "path to the account store's WAL file")
	root.PersistentFlags().String("log-level", DefaultLogLevel, "logrus level: debug, info, warn, error")

	viper.BindPFlag("STORE_PATH", root.PersistentFlags().Lookup("store"))
	viper.BindPFlag("LOG_LEVEL", root.PersistentFlags().Lookup("log-level"))
}
