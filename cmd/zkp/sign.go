package main

import (
	"github.com/spf13/cobra"
)

func newSignCmd(a *app) *cobra.Command {
	signCmd := &cobra.Command{
		Use:   "sign",
		Short: "Aggregated and message hash signatures",
	}

	nonceCmd := &cobra.Command{
		Use:   "nonce",
		Short: "Creates a secret nonce and prints it followed by its public nonce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.bridge.CreateSecretNonce()
			if err != nil {
				return err
			}
			if err := printLine(cmd, n.SecretNonce, nil); err != nil {
				return err
			}
			return printLine(cmd, n.PublicNonce, nil)
		},
	}

	var partial struct {
		nonce, publicKey, publicNonce, publicNonceTotal string
	}
	partialCmd := &cobra.Command{
		Use:   "partial <message> <secret-key>",
		Short: "Signs a 32 byte message, alone or as one party of an aggregate",
		Long: `Signs a 32 byte message, alone or as one party of an aggregate.

A secret nonce given with --nonce is refused if it already signed in this
process. Nothing is recorded between invocations, so the caller must never
pass the same nonce to two runs; reusing a nonce reveals the secret key.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.CreateSingleSignerSignature(args[0], args[1], partial.nonce,
				partial.publicKey, partial.publicNonce, partial.publicNonceTotal)
			return printLine(cmd, out, err)
		},
	}
	partialCmd.Flags().StringVar(&partial.nonce, "nonce", "", "secret nonce from 'sign nonce', single use (fresh when empty)")
	partialCmd.Flags().StringVar(&partial.publicKey, "public-key", "", "public key bound into the challenge")
	partialCmd.Flags().StringVar(&partial.publicNonce, "public-nonce", "", "public nonce used in the challenge")
	partialCmd.Flags().StringVar(&partial.publicNonceTotal, "public-nonce-total", "", "sum of all parties' public nonces")

	var addTotal string
	addCmd := &cobra.Command{
		Use:   "add <partial-signature>...",
		Short: "Combines partial signatures into one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.AddSingleSignerSignatures(args, addTotal)
			return printLine(cmd, out, err)
		},
	}
	addCmd.Flags().StringVar(&addTotal, "public-nonce-total", "", "sum of all parties' public nonces")
	_ = addCmd.MarkFlagRequired("public-nonce-total")

	var verify struct {
		publicNonce, publicKeyTotal string
		partial                     bool
	}
	verifyCmd := &cobra.Command{
		Use:   "verify <signature> <message> <public-key>",
		Short: "Verifies a full or partial signature",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.bridge.VerifySingleSignerSignature(args[0], args[1], verify.publicNonce,
				args[2], verify.publicKeyTotal, verify.partial)
			return printBool(cmd, ok, err)
		},
	}
	verifyCmd.Flags().StringVar(&verify.publicNonce, "public-nonce", "", "public nonce used in the challenge")
	verifyCmd.Flags().StringVar(&verify.publicKeyTotal, "public-key-total", "", "public key bound into the challenge")
	verifyCmd.Flags().BoolVar(&verify.partial, "partial", false, "skip the quadratic residue check on R")

	compactCmd := &cobra.Command{
		Use:   "compact <signature>",
		Short: "Converts a signature to its compact big-endian form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.CompactSignature(args[0])
			return printLine(cmd, out, err)
		},
	}

	uncompactCmd := &cobra.Command{
		Use:   "uncompact <compact-signature>",
		Short: "Converts a compact signature back to the internal form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.UncompactSignature(args[0])
			return printLine(cmd, out, err)
		},
	}

	hashSignCmd := &cobra.Command{
		Use:   "hash-sign <hash> <secret-key>",
		Short: "Prints a DER ECDSA signature of a 32 byte hash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.CreateMessageHashSignature(args[0], args[1])
			return printLine(cmd, out, err)
		},
	}

	hashVerifyCmd := &cobra.Command{
		Use:   "hash-verify <signature> <hash> <public-key>",
		Short: "Verifies a DER ECDSA signature of a 32 byte hash",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.bridge.VerifyMessageHashSignature(args[0], args[1], args[2])
			return printBool(cmd, ok, err)
		},
	}

	signCmd.AddCommand(nonceCmd, partialCmd, addCmd, verifyCmd, compactCmd, uncompactCmd,
		hashSignCmd, hashVerifyCmd)
	return signCmd
}
