package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"onchainblackjack/internal/contract"
	"onchainblackjack/internal/params"
	"onchainblackjack/internal/types"
	"onchainblackjack/internal/view"
)

// Action names a player action.
type Action string

const (
	ActionStart  Action = "start"
	ActionHit    Action = "hit"
	ActionStand  Action = "stand"
	ActionRedeem Action = "redeem"
	ActionFund   Action = "fund"
)

// Snapshot is everything the table shows. Snapshots are immutable once
// published; Refresh replaces the whole value.
type Snapshot struct {
	View      view.ViewModel
	Balance   sdkmath.Uint
	UpdatedAt time.Time

	// seq orders snapshots by when their refresh started.
	seq uint64
}

// Dispatcher turns player actions into contract requests. Each action is
// submitted, awaited until final, then followed by a refresh of the game
// record and balance. Only one action may be outstanding at a time.
type Dispatcher struct {
	session *Session

	logger          log.Logger
	notifier        Notifier
	metrics         *Metrics
	seeds           SeedSource
	finalizeTimeout time.Duration

	snap atomic.Pointer[Snapshot]
	seq  atomic.Uint64
	busy atomic.Bool
}

type Option func(*Dispatcher)

func WithLogger(l log.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) { d.notifier = n }
}

func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithSeedSource(s SeedSource) Option {
	return func(d *Dispatcher) { d.seeds = s }
}

// WithFinalizeTimeout bounds how long an action waits for its request to settle.
func WithFinalizeTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.finalizeTimeout = timeout
		}
	}
}

// New returns a dispatcher showing view.Initial until the first Refresh.
func New(session *Session, opts ...Option) *Dispatcher {
	if session == nil || session.Client == nil {
		panic("dispatcher: session is not connected")
	}
	d := &Dispatcher{
		session:         session,
		logger:          log.NewNopLogger(),
		notifier:        NopNotifier{},
		seeds:           RandomSeed,
		finalizeTimeout: params.DefaultFinalizeTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("module", "dispatch", "player", session.Player)
	d.snap.Store(&Snapshot{View: view.Initial(), Balance: sdkmath.ZeroUint()})
	return d
}

// View returns the last published table state.
func (d *Dispatcher) View() Snapshot {
	return *d.snap.Load()
}

// Busy reports whether an action is outstanding. Front ends disable their
// action triggers while it is true.
func (d *Dispatcher) Busy() bool {
	return d.busy.Load()
}

// Refresh re-reads the game record and the balance and publishes a new
// snapshot. The two reads are independent: a failed balance read keeps the
// previous balance but still publishes the game view, and the reverse. A
// refresh that started before the one currently published is discarded.
// Refresh only reads, so concurrent calls are safe.
func (d *Dispatcher) Refresh(ctx context.Context) error {
	seq := d.seq.Add(1)
	client := d.session.Client

	var (
		rec             types.GameRecord
		bal             sdkmath.Uint
		gameErr, balErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		rec, gameErr = client.GameState(ctx, d.session.Player)
		return nil
	})
	g.Go(func() error {
		bal, balErr = client.Balance(ctx, d.session.Player, d.session.Asset)
		return nil
	})
	_ = g.Wait()

	var vm *view.ViewModel
	if gameErr == nil {
		converted, err := view.Convert(rec)
		if err != nil {
			gameErr = err
		} else {
			vm = &converted
		}
	}
	if gameErr != nil {
		gameErr = errorsmod.Wrap(gameErr, "game state")
	}
	if balErr != nil {
		balErr = errorsmod.Wrap(balErr, "balance")
	}

	if vm != nil || balErr == nil {
		if d.publish(seq, vm, bal, balErr == nil) {
			d.metrics.incRefresh()
			d.logger.Debug("refreshed", "seq", seq, "game_ok", vm != nil, "balance_ok", balErr == nil)
		} else {
			d.logger.Debug("dropped stale refresh", "seq", seq)
		}
	}
	return errors.Join(gameErr, balErr)
}

// publish installs a snapshot built from cur and whatever this refresh read,
// unless a later refresh already published.
func (d *Dispatcher) publish(seq uint64, vm *view.ViewModel, bal sdkmath.Uint, balOK bool) bool {
	for {
		cur := d.snap.Load()
		if cur.seq > seq {
			return false
		}
		next := *cur
		next.seq = seq
		next.UpdatedAt = time.Now()
		if vm != nil {
			next.View = *vm
		}
		if balOK {
			next.Balance = bal
		}
		if d.snap.CompareAndSwap(cur, &next) {
			return true
		}
	}
}

// StartGame deals a new hand staking bet of the session asset.
func (d *Dispatcher) StartGame(ctx context.Context, bet sdkmath.Uint) (contract.Result, error) {
	return d.run(ctx, ActionStart, func(Snapshot) error {
		return positive(bet)
	}, func(ctx context.Context) (contract.PendingRequest, error) {
		seed, err := d.seeds()
		if err != nil {
			return nil, err
		}
		return d.session.Client.Start(ctx, seed, bet, d.session.Asset)
	})
}

func (d *Dispatcher) Hit(ctx context.Context) (contract.Result, error) {
	return d.run(ctx, ActionHit, func(s Snapshot) error {
		return enabled(s.View.CanHit, s.View.Outcome)
	}, func(ctx context.Context) (contract.PendingRequest, error) {
		seed, err := d.seeds()
		if err != nil {
			return nil, err
		}
		return d.session.Client.Hit(ctx, seed)
	})
}

func (d *Dispatcher) Stand(ctx context.Context) (contract.Result, error) {
	return d.run(ctx, ActionStand, func(s Snapshot) error {
		return enabled(s.View.CanStand, s.View.Outcome)
	}, func(ctx context.Context) (contract.PendingRequest, error) {
		seed, err := d.seeds()
		if err != nil {
			return nil, err
		}
		return d.session.Client.Stand(ctx, seed)
	})
}

// Redeem claims the payout of the finished hand shown in the current snapshot.
func (d *Dispatcher) Redeem(ctx context.Context) (contract.Result, error) {
	var outcome types.Outcome
	return d.run(ctx, ActionRedeem, func(s Snapshot) error {
		outcome = s.View.Outcome
		return enabled(s.View.CanRedeem, s.View.Outcome)
	}, func(ctx context.Context) (contract.PendingRequest, error) {
		return d.session.Client.Redeem(ctx, outcome)
	})
}

// Fund sends amount of the session asset to the contract's bankroll.
func (d *Dispatcher) Fund(ctx context.Context, amount sdkmath.Uint) (contract.Result, error) {
	return d.run(ctx, ActionFund, func(Snapshot) error {
		return positive(amount)
	}, func(ctx context.Context) (contract.PendingRequest, error) {
		return d.session.Client.Fund(ctx, amount, d.session.Asset)
	})
}

func (d *Dispatcher) run(
	ctx context.Context,
	action Action,
	check func(Snapshot) error,
	submit func(context.Context) (contract.PendingRequest, error),
) (contract.Result, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return contract.Result{}, d.fail(action, stageCheck, errorsmod.Wrapf(types.ErrActionInFlight, "%s", action))
	}
	defer d.busy.Store(false)

	logger := d.logger.With("action", action, "action_id", uuid.NewString())

	if err := check(d.View()); err != nil {
		return contract.Result{}, d.fail(action, stageCheck, errorsmod.Wrapf(err, "%s", action))
	}

	pending, err := submit(ctx)
	if err != nil {
		err = classify(err, types.ErrSubmission)
		logger.Error("submit failed", "err", err)
		return contract.Result{}, d.fail(action, stageSubmit, err)
	}
	d.metrics.incSubmitted(action)
	d.notifier.Submitted(action, pending.Hash())
	logger.Info("submitted", "hash", pending.Hash())

	waitCtx, cancel := context.WithTimeout(ctx, d.finalizeTimeout)
	defer cancel()
	started := time.Now()
	res, err := pending.Wait(waitCtx)
	d.metrics.observeFinalize(action, time.Since(started))
	if err != nil {
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = classify(err, types.ErrConfirmationTimeout)
		} else {
			err = classify(err, types.ErrConfirmation)
		}
		logger.Error("finalize failed", "hash", pending.Hash(), "err", err)
		return contract.Result{}, d.fail(action, stageFinalize, err)
	}
	if res.Hash == "" {
		res.Hash = pending.Hash()
	}
	d.notifier.Succeeded(action, res)
	logger.Info("finalized", "hash", res.Hash, "height", res.Height)

	if err := d.Refresh(ctx); err != nil {
		logger.Error("refresh after action failed", "err", err)
		return res, d.fail(action, stageRefresh, err)
	}
	return res, nil
}

func (d *Dispatcher) fail(action Action, stage string, err error) error {
	d.metrics.incFailed(action, stage)
	d.notifier.Failed(action, err)
	return err
}

// classify keeps lifecycle errors the client already tagged and files
// anything else under fallback.
func classify(err, fallback error) error {
	for _, known := range []error{
		types.ErrSubmission,
		types.ErrConfirmation,
		types.ErrConfirmationTimeout,
		types.ErrActionDisabled,
		types.ErrNodeUnreachable,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return errorsmod.Wrap(fallback, err.Error())
}

func enabled(ok bool, outcome types.Outcome) error {
	if !ok {
		return errorsmod.Wrapf(types.ErrActionDisabled, "outcome is %s", outcome)
	}
	return nil
}

func positive(amount sdkmath.Uint) error {
	if amount == (sdkmath.Uint{}) || amount.IsZero() {
		return errorsmod.Wrap(types.ErrInvalidAmount, "amount must be positive")
	}
	return nil
}
