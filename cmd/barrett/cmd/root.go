// Package cmd implements the barrett command line.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"barrettgo/internal/util"
	"barrettgo/pkg/barrett"
)

const (
	flagConfig    = "config"
	flagModulus   = "modulus"
	flagLogLevel  = "log-level"
	flagVerbose   = "verbose"
	flagThreads   = "threads"
	flagChunkSize = "chunk-size"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree with its own configuration registry.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "barrett",
		Short:         "Barrett reduction of 128-bit values modulo a fixed 64-bit modulus",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(v); err != nil {
				return err
			}
			logger, err := util.NewLogger(cmd.ErrOrStderr(), v.GetString(flagLogLevel))
			if err != nil {
				return err
			}
			util.SetLogger(logger)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String(flagConfig, "", "YAML config file")
	pf.String(flagModulus, "", "modulus, decimal or 0x hex")
	pf.String(flagLogLevel, "info", "log level (debug, info, warn, error)")
	pf.Bool(flagVerbose, false, "verbose progress logging")
	for _, name := range []string{flagConfig, flagModulus, flagLogLevel, flagVerbose} {
		_ = v.BindPFlag(name, pf.Lookup(name))
	}

	root.AddCommand(
		newContextCmd(v),
		newDecodeCmd(),
		newReduceCmd(v),
		newExpCmd(v),
		newBatchCmd(v),
	)
	return root
}

// initConfig reads the config file, if any, and environment variables.
func initConfig(v *viper.Viper) error {
	v.SetEnvPrefix("barrett")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", path)
		}
	}
	return nil
}

func parseUint(name, s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s %q", name, s)
	}
	return n, nil
}

func contextFromConfig(v *viper.Viper) (barrett.Context, error) {
	s := v.GetString(flagModulus)
	if s == "" {
		return barrett.Context{}, errors.New("modulus is required (--modulus, BARRETT_MODULUS or config)")
	}
	m, err := parseUint(flagModulus, s)
	if err != nil {
		return barrett.Context{}, err
	}
	return barrett.NewContext(m)
}
