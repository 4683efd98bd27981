package main

import (
	"github.com/spf13/cobra"
)

// sumFlags are the --positive and --negative lists shared by the sum commands.
type sumFlags struct {
	positive []string
	negative []string
}

func (f *sumFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.positive, "positive", nil, "comma separated positive terms")
	cmd.Flags().StringSliceVar(&f.negative, "negative", nil, "comma separated negative terms")
}

func newCommitCmd(a *app) *cobra.Command {
	commitCmd := &cobra.Command{
		Use:   "commit",
		Short: "Pedersen commitment operations",
	}

	newCmd := &cobra.Command{
		Use:   "new <blind> <value>",
		Short: "Prints the commitment blind*G + value*H",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.PedersenCommit(args[0], args[1])
			return printLine(cmd, out, err)
		},
	}

	var sum sumFlags
	sumCmd := &cobra.Command{
		Use:   "sum",
		Short: "Prints the sum of the positive commitments minus the negative ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.PedersenCommitSum(sum.positive, sum.negative)
			return printLine(cmd, out, err)
		},
	}
	sum.register(sumCmd)

	var verify sumFlags
	verifySumCmd := &cobra.Command{
		Use:   "verify-sum",
		Short: "Checks that the positive and negative commitments balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.bridge.VerifyCommitSum(verify.positive, verify.negative)
			return printBool(cmd, ok, err)
		},
	}
	verify.register(verifySumCmd)

	var blinds sumFlags
	blindSumCmd := &cobra.Command{
		Use:   "blind-sum",
		Short: "Prints the sum of the positive blinds minus the negative ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.BlindSum(blinds.positive, blinds.negative)
			return printLine(cmd, out, err)
		},
	}
	blinds.register(blindSumCmd)

	switchCmd := &cobra.Command{
		Use:   "switch <blind> <value>",
		Short: "Prints the switch-commitment blind for a blind and value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.BlindSwitch(args[0], args[1])
			return printLine(cmd, out, err)
		},
	}

	toKeyCmd := &cobra.Command{
		Use:   "to-key <commitment>",
		Short: "Prints the public key with the same point as a commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.CommitmentToPublicKey(args[0])
			return printLine(cmd, out, err)
		},
	}

	fromKeyCmd := &cobra.Command{
		Use:   "from-key <public-key>",
		Short: "Prints the commitment with the same point as a public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.PublicKeyToCommitment(args[0])
			return printLine(cmd, out, err)
		},
	}

	validCmd := &cobra.Command{
		Use:   "valid <commitment>",
		Short: "Reports whether a commitment is well formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.bridge.IsValidCommitment(args[0])
			return printBool(cmd, ok, err)
		},
	}

	commitCmd.AddCommand(newCmd, sumCmd, verifySumCmd, blindSumCmd, switchCmd, toKeyCmd,
		fromKeyCmd, validCmd)
	return commitCmd
}
