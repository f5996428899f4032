package cmd

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"

	"onchainblackjack/internal/contract"
	"onchainblackjack/internal/dispatch"
)

func statusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the node network, the player and the balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := e.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			network, err := c.Network(ctx)
			if err != nil {
				return err
			}
			bal, err := c.Balance(ctx, c.Player(), e.cfg.Asset)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "node:     %s\n", e.cfg.Node)
			fmt.Fprintf(out, "network:  %s", network)
			if network != e.cfg.ChainID {
				fmt.Fprintf(out, " (expected %s)", e.cfg.ChainID)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "contract: %s\n", e.cfg.Contract)
			fmt.Fprintf(out, "player:   %s\n", c.Player())
			fmt.Fprintf(out, "balance:  %s %s\n", bal, e.cfg.Asset)
			return nil
		},
	}
}

func showCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := e.dispatcher(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			return e.render(cmd, d)
		},
	}
}

func startCmd(e *env) *cobra.Command {
	var bet string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Deal a new hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount := e.cfg.Bet
			if cmd.Flags().Changed("bet") {
				var err error
				if amount, err = sdkmath.ParseUint(bet); err != nil {
					return fmt.Errorf("invalid --bet: %w", err)
				}
			}
			return runAction(e, cmd, func(ctx context.Context, d *dispatch.Dispatcher) (contract.Result, error) {
				return d.StartGame(ctx, amount)
			})
		},
	}
	cmd.Flags().StringVar(&bet, "bet", "", "stake for the new hand (default from config)")
	return cmd
}

func fundCmd(e *env) *cobra.Command {
	var amount string
	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Send funds to the contract bankroll",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := sdkmath.ParseUint(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}
			return runAction(e, cmd, func(ctx context.Context, d *dispatch.Dispatcher) (contract.Result, error) {
				return d.Fund(ctx, n)
			})
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "amount of the base asset to send")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func actionCmd(e *env, use, short string, act func(*dispatch.Dispatcher, context.Context) (contract.Result, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAction(e, cmd, func(ctx context.Context, d *dispatch.Dispatcher) (contract.Result, error) {
				return act(d, ctx)
			})
		},
	}
}

func runAction(e *env, cmd *cobra.Command, act func(context.Context, *dispatch.Dispatcher) (contract.Result, error)) error {
	ctx := cmd.Context()
	d, err := e.dispatcher(ctx, cmd)
	if err != nil {
		return err
	}
	if _, err := act(ctx, d); err != nil {
		return err
	}
	return e.render(cmd, d)
}
