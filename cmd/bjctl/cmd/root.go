package cmd

import (
	"context"
	"fmt"
	"strings"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"onchainblackjack/internal/config"
	"onchainblackjack/internal/contract"
	"onchainblackjack/internal/dispatch"
	"onchainblackjack/internal/params"
	"onchainblackjack/internal/view"
	"onchainblackjack/internal/wallet"
)

// env is what every subcommand gets after the persistent pre-run.
type env struct {
	v      *viper.Viper
	cfg    config.Config
	logger log.Logger
}

// NewRootCmd creates the root command for bjctl. It is called once in main.
func NewRootCmd() *cobra.Command {
	e := &env{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:           params.BinaryName,
		Short:         params.AppName + " client",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			if err := config.ReadFile(e.v); err != nil {
				return err
			}
			cfg, err := config.Load(e.v)
			if err != nil {
				return err
			}
			logger, err := cfg.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = logger
			return nil
		},
	}

	f := rootCmd.PersistentFlags()
	f.String("home", config.DefaultHome(), "directory holding config.toml and the key file")
	f.String("node", params.DefaultNode, "CometBFT RPC endpoint")
	f.String("chain-id", params.DefaultChainID, "expected network; other networks are refused")
	f.String("contract", params.DefaultContract, "blackjack contract id")
	f.String("asset", params.BaseAsset, "asset bets and funding are made in")
	f.String("key-file", "", "player key file (default <home>/key.json)")
	f.Duration("finalize-timeout", params.DefaultFinalizeTimeout, "how long an action waits to be finalized")
	f.Duration("poll-interval", params.DefaultPollInterval, "how often a pending tx is polled")
	f.String("explorer-url", "", "tx link format, with %s for the hash")
	f.String("log-level", "info", "log level (trace|debug|info|warn|error)")
	f.String("log-format", "plain", "log format (plain|json)")
	f.Bool("color", true, "colorize output")
	for _, key := range []string{
		config.KeyHome, config.KeyNode, config.KeyChainID, config.KeyContract, config.KeyAsset,
		config.KeyKeyFile, config.KeyFinalizeTimeout, config.KeyPollInterval, config.KeyExplorerURL,
		config.KeyLogLevel, config.KeyLogFormat, config.KeyColor,
	} {
		if err := e.v.BindPFlag(key, f.Lookup(flagName(key))); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		keysCmd(e),
		statusCmd(e),
		showCmd(e),
		startCmd(e),
		actionCmd(e, "hit", "Draw another card", (*dispatch.Dispatcher).Hit),
		actionCmd(e, "stand", "End your turn and let the dealer play", (*dispatch.Dispatcher).Stand),
		actionCmd(e, "redeem", "Claim the payout of a finished hand", (*dispatch.Dispatcher).Redeem),
		fundCmd(e),
		playCmd(e),
	)
	return rootCmd
}

// flagName maps a config key to its flag: chain_id -> chain-id.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func (e *env) loadKey() (*wallet.Key, error) {
	k, err := wallet.Load(e.cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w (create one with `%s keys add`)", err, params.BinaryName)
	}
	return k, nil
}

func (e *env) client() (*contract.RPCClient, error) {
	k, err := e.loadKey()
	if err != nil {
		return nil, err
	}
	return contract.Dial(e.cfg.Node, e.cfg.Contract, k,
		contract.WithPollInterval(e.cfg.PollInterval),
		contract.WithLogger(e.logger),
	)
}

// dispatcher connects, checks the network and loads the current game.
func (e *env) dispatcher(ctx context.Context, cmd *cobra.Command, opts ...dispatch.Option) (*dispatch.Dispatcher, error) {
	c, err := e.client()
	if err != nil {
		return nil, err
	}
	s, err := dispatch.Connect(ctx, c, e.cfg.ChainID, e.cfg.Asset)
	if err != nil {
		return nil, err
	}
	opts = append([]dispatch.Option{
		dispatch.WithLogger(e.logger),
		dispatch.WithFinalizeTimeout(e.cfg.FinalizeTimeout),
		dispatch.WithNotifier(progress{dispatch.WriterNotifier{W: cmd.OutOrStdout(), Link: e.cfg.TxLink}}),
	}, opts...)
	d := dispatch.New(s, opts...)
	if err := d.Refresh(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (e *env) render(cmd *cobra.Command, d *dispatch.Dispatcher) error {
	snap := d.View()
	return view.Renderer{Color: e.cfg.Color}.Render(cmd.OutOrStdout(), view.Table{
		View:    snap.View,
		Balance: snap.Balance,
		Bet:     e.cfg.Bet,
		Asset:   e.cfg.Asset,
	})
}

// progress prints submissions and confirmations. Failures reach the user as
// the command's error.
type progress struct {
	dispatch.WriterNotifier
}

func (progress) Failed(dispatch.Action, error) {}
