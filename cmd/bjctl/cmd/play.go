package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"onchainblackjack/internal/dispatch"
	"onchainblackjack/internal/view"
)

const playHelp = `commands:
  new [amount|tier#]  deal a new hand (tiers: %s)
  hit | h             draw a card
  stand | s           end your turn
  redeem | r          claim a finished hand
  fund <amount>       send funds to the bankroll
  bet <amount|tier#>  change the stake for new hands
  show | refresh      reload the table
  help | quit
`

func playCmd(e *env) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Sit at the table and play interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := dispatch.NewMetrics(reg)
			if metricsAddr != "" {
				stop := serveMetrics(e, metricsAddr, reg)
				defer stop()
			}

			d, err := e.dispatcher(ctx, cmd,
				dispatch.WithMetrics(metrics),
				dispatch.WithNotifier(e.playNotifier(cmd.OutOrStdout())),
			)
			if err != nil {
				return err
			}
			t := &table{env: e, d: d, out: cmd.OutOrStdout(), bet: e.cfg.Bet}
			return t.loop(ctx, cmd.InOrStdin())
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address (e.g. :9464)")
	return cmd
}

// playNotifier reports action progress on the terminal, or through the
// logger when logs are JSON and likely collected by a machine.
func (e *env) playNotifier(out io.Writer) dispatch.Notifier {
	if e.cfg.LogFormat == "json" {
		return dispatch.LogNotifier{Logger: e.logger}
	}
	return dispatch.WriterNotifier{W: out, Link: e.cfg.TxLink}
}

func serveMetrics(e *env, addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	e.logger.Info("serving metrics", "addr", addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

type table struct {
	env *env
	d   *dispatch.Dispatcher
	out io.Writer
	bet sdkmath.Uint
}

func (t *table) loop(ctx context.Context, in io.Reader) error {
	t.draw()
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		fmt.Fprint(t.out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(t.out)
			return nil
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			line = l
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		quit, err := t.exec(ctx, fields[0], fields[1:])
		if quit {
			return nil
		}
		// Action failures were already reported by the notifier.
		if err != nil && !isActionErr(err) {
			fmt.Fprintf(t.out, "error: %v\n", err)
		}
	}
}

func (t *table) exec(ctx context.Context, verb string, args []string) (bool, error) {
	var err error
	switch strings.ToLower(verb) {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprintf(t.out, playHelp, t.tiers())
		return false, nil
	case "show", "refresh":
		if err = t.d.Refresh(ctx); err != nil {
			return false, err
		}
	case "bet":
		if len(args) != 1 {
			return false, errors.New("usage: bet <amount|tier#>")
		}
		bet, err := t.parseBet(args[0])
		if err != nil {
			return false, err
		}
		t.bet = bet
	case "new", "deal", "start":
		bet := t.bet
		if len(args) == 1 {
			if bet, err = t.parseBet(args[0]); err != nil {
				return false, err
			}
		}
		_, err = t.d.StartGame(ctx, bet)
	case "hit", "h":
		_, err = t.d.Hit(ctx)
	case "stand", "s":
		_, err = t.d.Stand(ctx)
	case "redeem", "r":
		_, err = t.d.Redeem(ctx)
	case "fund":
		if len(args) != 1 {
			return false, errors.New("usage: fund <amount>")
		}
		amount, perr := sdkmath.ParseUint(args[0])
		if perr != nil {
			return false, fmt.Errorf("invalid amount: %w", perr)
		}
		_, err = t.d.Fund(ctx, amount)
	default:
		return false, fmt.Errorf("unknown command %q (try help)", verb)
	}
	if err != nil {
		return false, actionErr{err}
	}
	t.draw()
	return false, nil
}

// parseBet accepts an amount, or #n for the n-th configured tier.
func (t *table) parseBet(s string) (sdkmath.Uint, error) {
	if n, ok := strings.CutPrefix(s, "#"); ok {
		tiers := t.env.cfg.BetTiers
		for i, tier := range tiers {
			if fmt.Sprint(i+1) == n {
				return tier, nil
			}
		}
		return sdkmath.Uint{}, fmt.Errorf("no bet tier %s (have %d)", s, len(tiers))
	}
	bet, err := sdkmath.ParseUint(s)
	if err != nil {
		return sdkmath.Uint{}, fmt.Errorf("invalid bet: %w", err)
	}
	return bet, nil
}

func (t *table) tiers() string {
	parts := make([]string, 0, len(t.env.cfg.BetTiers))
	for i, tier := range t.env.cfg.BetTiers {
		parts = append(parts, fmt.Sprintf("#%d=%s", i+1, tier))
	}
	return strings.Join(parts, " ")
}

func (t *table) draw() {
	snap := t.d.View()
	err := view.Renderer{Color: t.env.cfg.Color}.Render(t.out, view.Table{
		View:    snap.View,
		Balance: snap.Balance,
		Bet:     t.bet,
		Asset:   t.env.cfg.Asset,
	})
	if err != nil {
		t.env.logger.Error("render failed", "err", err)
	}
}

// actionErr marks errors the dispatcher already surfaced.
type actionErr struct{ error }

func (e actionErr) Unwrap() error { return e.error }

func isActionErr(err error) bool {
	var ae actionErr
	return errors.As(err, &ae)
}
