package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"barrettgo/internal/serial"
	"barrettgo/pkg/barrett"
)

func newContextCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Precompute and print the reduction context for a modulus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := contextFromConfig(v)
			if err != nil {
				return err
			}
			return printContext(cmd.OutOrStdout(), c)
		},
	}
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode ENCODED",
		Short: "Verify and print an encoded reduction context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c barrett.Context
			if err := serial.DecodeString(&c, args[0]); err != nil {
				return err
			}
			return printContext(cmd.OutOrStdout(), c)
		},
	}
}

func printContext(w io.Writer, c barrett.Context) error {
	encoded, err := serial.EncodeString(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "modulus:     %d\n", c.Modulus())
	fmt.Fprintf(w, "mu:          %v\n", c.Mu())
	fmt.Fprintf(w, "fingerprint: %016x\n", c.Fingerprint())
	fmt.Fprintf(w, "encoded:     %s\n", encoded)
	return nil
}
