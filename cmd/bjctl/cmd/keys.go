package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"onchainblackjack/internal/wallet"
)

func keysCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the player key",
	}

	var force bool
	add := &cobra.Command{
		Use:   "add",
		Short: "Generate a new player key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(e.cfg.KeyFile); err == nil && !force {
				return fmt.Errorf("key file %s already exists (use --force to replace it)", e.cfg.KeyFile)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			k, err := wallet.Generate()
			if err != nil {
				return err
			}
			if err := k.Save(e.cfg.KeyFile); err != nil {
				return err
			}
			e.logger.Info("key created", "file", e.cfg.KeyFile)
			fmt.Fprintln(cmd.OutOrStdout(), k.Address())
			return nil
		},
	}
	add.Flags().BoolVar(&force, "force", false, "overwrite an existing key file")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the player address and public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := e.loadKey()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "address: %s\n", k.Address())
			fmt.Fprintf(out, "pubkey:  %s\n", hex.EncodeToString(k.PubKey()))
			return nil
		},
	}

	cmd.AddCommand(add, show)
	return cmd
}
