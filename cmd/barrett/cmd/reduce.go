package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"barrettgo/internal/util"
)

func newReduceCmd(v *viper.Viper) *cobra.Command {
	var hi, lo string
	cmd := &cobra.Command{
		Use:   "reduce",
		Short: "Reduce the 128-bit value hi<<64 | lo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := contextFromConfig(v)
			if err != nil {
				return err
			}
			h, err := parseUint("hi", hi)
			if err != nil {
				return err
			}
			l, err := parseUint("lo", lo)
			if err != nil {
				return err
			}
			util.Logger().Debug().Uint64("modulus", c.Modulus()).Str("fingerprint", fmt.Sprintf("%016x", c.Fingerprint())).Msg("reduce")
			fmt.Fprintln(cmd.OutOrStdout(), c.Reduce(h, l))
			return nil
		},
	}
	cmd.Flags().StringVar(&hi, "hi", "0", "high 64 bits of the dividend")
	cmd.Flags().StringVar(&lo, "lo", "0", "low 64 bits of the dividend")
	return cmd
}

func newExpCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "exp BASE EXPONENT",
		Short: "Compute BASE^EXPONENT mod modulus",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := contextFromConfig(v)
			if err != nil {
				return err
			}
			base, err := parseUint("base", args[0])
			if err != nil {
				return err
			}
			exp, err := parseUint("exponent", args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Exp(base, exp))
			return nil
		},
	}
}
