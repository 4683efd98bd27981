package main

import (
	"github.com/spf13/cobra"
)

func newKeyCmd(a *app) *cobra.Command {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Secret and public key operations",
	}

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Creates a secret key and prints it followed by its public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sec, err := a.bridge.CreateSecretKey()
			if err := printLine(cmd, sec, err); err != nil {
				return err
			}
			pub, err := a.bridge.PublicKeyFromSecretKey(sec)
			return printLine(cmd, pub, err)
		},
	}

	publicCmd := &cobra.Command{
		Use:   "public <secret-key>",
		Short: "Prints the compressed public key of a secret key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.PublicKeyFromSecretKey(args[0])
			return printLine(cmd, out, err)
		},
	}

	uncompressCmd := &cobra.Command{
		Use:   "uncompress <public-key>",
		Short: "Prints the 65 byte form of a public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.UncompressPublicKey(args[0])
			return printLine(cmd, out, err)
		},
	}

	negateCmd := &cobra.Command{
		Use:   "negate <secret-key>",
		Args:  cobra.ExactArgs(1),
		Short: "Prints n minus the secret key",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.SecretKeyNegate(args[0])
			return printLine(cmd, out, err)
		},
	}

	var public bool
	tweakAddCmd := &cobra.Command{
		Use:   "tweak-add <key> <tweak>",
		Short: "Adds a tweak to a secret key, or tweak*G to a public key with --public",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := a.bridge.SecretKeyTweakAdd
			if public {
				op = a.bridge.PublicKeyTweakAdd
			}
			out, err := op(args[0], args[1])
			return printLine(cmd, out, err)
		},
	}
	tweakAddCmd.Flags().BoolVar(&public, "public", false, "the key is a public key")

	var publicMul bool
	tweakMulCmd := &cobra.Command{
		Use:   "tweak-mul <key> <tweak>",
		Short: "Multiplies a secret key, or a public key with --public, by a tweak",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := a.bridge.SecretKeyTweakMultiply
			if publicMul {
				op = a.bridge.PublicKeyTweakMultiply
			}
			out, err := op(args[0], args[1])
			return printLine(cmd, out, err)
		},
	}
	tweakMulCmd.Flags().BoolVar(&publicMul, "public", false, "the key is a public key")

	combineCmd := &cobra.Command{
		Use:   "combine <public-key>...",
		Short: "Prints the sum of the public keys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.CombinePublicKeys(args)
			return printLine(cmd, out, err)
		},
	}

	sharedCmd := &cobra.Command{
		Use:   "shared <secret-key> <public-key>",
		Short: "Prints the ECDH shared secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.bridge.SharedSecret(args[0], args[1])
			return printLine(cmd, out, err)
		},
	}

	keyCmd.AddCommand(newCmd, publicCmd, uncompressCmd, negateCmd, tweakAddCmd, tweakMulCmd,
		combineCmd, sharedCmd)
	return keyCmd
}
