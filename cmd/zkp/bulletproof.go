package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// proofFlags are the optional inputs that every prover step hashes.
type proofFlags struct {
	nonce        string
	privateNonce string
	extraCommit  string
	message      string
}

func (f *proofFlags) register(cmd *cobra.Command, withPrivate bool) {
	cmd.Flags().StringVar(&f.nonce, "nonce", "", "32 byte rewind nonce")
	if withPrivate {
		cmd.Flags().StringVar(&f.privateNonce, "private-nonce", "", "32 byte private nonce (defaults to --nonce)")
	}
	cmd.Flags().StringVar(&f.extraCommit, "extra", "", "extra data bound into the proof")
	cmd.Flags().StringVar(&f.message, "message", "", "up to 20 bytes embedded for the rewinder")
	_ = cmd.MarkFlagRequired("nonce")
}

func newBulletproofCmd(a *app) *cobra.Command {
	bpCmd := &cobra.Command{
		Use:     "bulletproof",
		Aliases: []string{"bp"},
		Short:   "64 bit range proofs over Pedersen commitments",
	}

	var create proofFlags
	createCmd := &cobra.Command{
		Use:   "create <blind> <value>",
		Short: "Proves that the commitment to value under blind is in range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.CreateBulletproof(args[0], args[1], create.nonce,
				create.privateNonce, create.extraCommit, create.message)
			return printLine(cmd, out, err)
		},
	}
	create.register(createCmd, true)

	var extraVerify string
	verifyCmd := &cobra.Command{
		Use:   "verify <proof> <commitment>",
		Short: "Verifies a range proof",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.bridge.VerifyBulletproof(args[0], args[1], extraVerify)
			return printBool(cmd, ok, err)
		},
	}
	verifyCmd.Flags().StringVar(&extraVerify, "extra", "", "extra data bound into the proof")

	var rewindNonce, rewindExtra string
	rewindCmd := &cobra.Command{
		Use:   "rewind <proof> <commitment>",
		Short: "Recovers the value, blind and message of a proof as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.bridge.RewindBulletproof(args[0], args[1], rewindNonce, rewindExtra)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		},
	}
	rewindCmd.Flags().StringVar(&rewindNonce, "nonce", "", "32 byte rewind nonce")
	rewindCmd.Flags().StringVar(&rewindExtra, "extra", "", "extra data bound into the proof")
	_ = rewindCmd.MarkFlagRequired("nonce")

	var roundOnePrivate string
	roundOneCmd := &cobra.Command{
		Use:   "round-one",
		Short: "Prints this party's tOne and tTwo for a joint proof",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tOne, tTwo, err := a.bridge.BulletproofRoundOne(roundOnePrivate)
			if err := printLine(cmd, tOne, err); err != nil {
				return err
			}
			return printLine(cmd, tTwo, nil)
		},
	}
	roundOneCmd.Flags().StringVar(&roundOnePrivate, "private-nonce", "", "this party's 32 byte private nonce")
	_ = roundOneCmd.MarkFlagRequired("private-nonce")

	var roundTwo proofFlags
	roundTwoCmd := &cobra.Command{
		Use:   "round-two <blind> <value> <commitment> <t-one> <t-two>",
		Short: "Prints this party's tauX share of a joint proof",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.BulletproofRoundTwo(args[0], args[1], roundTwo.nonce,
				roundTwo.privateNonce, args[2], args[3], args[4], roundTwo.extraCommit, roundTwo.message)
			return printLine(cmd, out, err)
		},
	}
	roundTwo.register(roundTwoCmd, true)
	_ = roundTwoCmd.MarkFlagRequired("private-nonce")

	var finish proofFlags
	finishCmd := &cobra.Command{
		Use:   "finish <tau-x> <t-one> <t-two> <commitment> <value>",
		Short: "Builds the joint proof from the summed tauX",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.CreateBulletproofBlindless(args[0], args[1], args[2], args[3], args[4],
				finish.nonce, finish.extraCommit, finish.message)
			return printLine(cmd, out, err)
		},
	}
	finish.register(finishCmd, false)

	bpCmd.AddCommand(createCmd, verifyCmd, rewindCmd, roundOneCmd, roundTwoCmd, finishCmd)
	return bpCmd
}
