package contract

import (
	"context"
	"errors"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"github.com/cenkalti/backoff/v4"
	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	rpcclient "github.com/cometbft/cometbft/rpc/jsonrpc/client"

	"onchainblackjack/internal/codec"
	"onchainblackjack/internal/types"
)

// Caller is the JSON-RPC transport. *rpcclient.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, method string, params map[string]any, result any) (any, error)
}

// RPCClient talks to a CometBFT node hosting the blackjack contract.
type RPCClient struct {
	rpc      Caller
	contract string
	signer   Signer

	pollInterval time.Duration
	logger       log.Logger
}

var _ Client = (*RPCClient)(nil)

type Option func(*RPCClient)

// WithPollInterval sets how often Wait asks the node for a submitted tx.
func WithPollInterval(d time.Duration) Option {
	return func(c *RPCClient) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

func WithLogger(l log.Logger) Option {
	return func(c *RPCClient) { c.logger = l }
}

// Dial connects to the node RPC at remote (e.g. http://127.0.0.1:26657).
func Dial(remote, contract string, signer Signer, opts ...Option) (*RPCClient, error) {
	rpc, err := rpcclient.New(remote)
	if err != nil {
		return nil, errorsmod.Wrapf(types.ErrNodeUnreachable, "rpc %s: %v", remote, err)
	}
	return NewRPCClient(rpc, contract, signer, opts...), nil
}

func NewRPCClient(rpc Caller, contract string, signer Signer, opts ...Option) *RPCClient {
	if rpc == nil {
		panic("contract client: rpc is nil")
	}
	if signer == nil {
		panic("contract client: signer is nil")
	}
	c := &RPCClient{
		rpc:          rpc,
		contract:     contract,
		signer:       signer,
		pollInterval: 500 * time.Millisecond,
		logger:       log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("module", "contract", "contract", contract)
	return c
}

func (c *RPCClient) Player() string { return c.signer.Address() }

func (c *RPCClient) GameState(ctx context.Context, player string) (types.GameRecord, error) {
	b, err := c.query(ctx, types.GameStatePath(c.contract, player))
	if err != nil {
		return types.GameRecord{}, err
	}
	return codec.DecodeGameRecord(b)
}

func (c *RPCClient) Balance(ctx context.Context, player, asset string) (sdkmath.Uint, error) {
	b, err := c.query(ctx, types.BalancePath(player, asset))
	if err != nil {
		return sdkmath.Uint{}, err
	}
	return codec.DecodeBalance(b)
}

func (c *RPCClient) Start(ctx context.Context, seed string, bet sdkmath.Uint, asset string) (PendingRequest, error) {
	return c.submit(ctx, types.TxTypeStart, codec.BlackjackStartTx{
		Contract: c.contract,
		Player:   c.Player(),
		Seed:     seed,
		Bet:      bet.String(),
		Forward:  codec.Forward{Amount: bet.String(), Asset: asset},
	})
}

func (c *RPCClient) Hit(ctx context.Context, seed string) (PendingRequest, error) {
	return c.submit(ctx, types.TxTypeHit, codec.BlackjackHitTx{
		Contract: c.contract,
		Player:   c.Player(),
		Seed:     seed,
	})
}

func (c *RPCClient) Stand(ctx context.Context, seed string) (PendingRequest, error) {
	return c.submit(ctx, types.TxTypeStand, codec.BlackjackStandTx{
		Contract: c.contract,
		Player:   c.Player(),
		Seed:     seed,
	})
}

func (c *RPCClient) Redeem(ctx context.Context, outcome types.Outcome) (PendingRequest, error) {
	if !outcome.Redeemable() {
		return nil, errorsmod.Wrapf(types.ErrActionDisabled, "outcome %s is not redeemable", outcome)
	}
	return c.submit(ctx, types.TxTypeRedeem, codec.BlackjackRedeemTx{
		Contract: c.contract,
		Player:   c.Player(),
		Outcome:  outcome.String(),
	})
}

func (c *RPCClient) Fund(ctx context.Context, amount sdkmath.Uint, asset string) (PendingRequest, error) {
	return c.submit(ctx, types.TxTypeFund, codec.BlackjackFundTx{
		Contract: c.contract,
		Player:   c.Player(),
		Forward:  codec.Forward{Amount: amount.String(), Asset: asset},
	})
}

// statusResult keeps only the part of /status the client needs.
type statusResult struct {
	NodeInfo struct {
		Network string `json:"network"`
	} `json:"node_info"`
}

func (c *RPCClient) Network(ctx context.Context) (string, error) {
	var res statusResult
	if _, err := c.rpc.Call(ctx, "status", map[string]any{}, &res); err != nil {
		return "", errorsmod.Wrapf(types.ErrNodeUnreachable, "status: %v", err)
	}
	return res.NodeInfo.Network, nil
}

func (c *RPCClient) query(ctx context.Context, path string) ([]byte, error) {
	var res coretypes.ResultABCIQuery
	params := map[string]any{
		"path":   path,
		"data":   cmtbytes.HexBytes(nil),
		"height": int64(0),
		"prove":  false,
	}
	if _, err := c.rpc.Call(ctx, "abci_query", params, &res); err != nil {
		return nil, errorsmod.Wrapf(types.ErrQuery, "%s: %v", path, err)
	}
	if res.Response.Code != 0 {
		return nil, errorsmod.Wrapf(types.ErrQuery, "%s: code=%d log=%q", path, res.Response.Code, res.Response.Log)
	}
	return res.Response.Value, nil
}

func (c *RPCClient) submit(ctx context.Context, typ string, value any) (PendingRequest, error) {
	env, err := codec.NewTxEnvelope(typ, value)
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrSubmission, err.Error())
	}
	c.signer.Sign(&env)
	tx, err := env.Bytes()
	if err != nil {
		return nil, errorsmod.Wrap(types.ErrSubmission, err.Error())
	}

	var res coretypes.ResultBroadcastTx
	if _, err := c.rpc.Call(ctx, "broadcast_tx_sync", map[string]any{"tx": tx}, &res); err != nil {
		return nil, errorsmod.Wrapf(types.ErrSubmission, "%s: %v", typ, err)
	}
	if res.Code != 0 {
		return nil, errorsmod.Wrapf(types.ErrSubmission, "%s rejected: code=%d log=%q", typ, res.Code, res.Log)
	}

	c.logger.Debug("tx submitted", "type", typ, "hash", res.Hash.String(), "nonce", env.Nonce)
	return &pendingTx{c: c, typ: typ, hash: res.Hash}, nil
}

type pendingTx struct {
	c    *RPCClient
	typ  string
	hash cmtbytes.HexBytes
}

func (p *pendingTx) Hash() string { return p.hash.String() }

func (p *pendingTx) Wait(ctx context.Context) (Result, error) {
	var res coretypes.ResultTx
	poll := func() error {
		_, err := p.c.rpc.Call(ctx, "tx", map[string]any{"hash": []byte(p.hash), "prove": false}, &res)
		if err != nil && !isNotFound(err) {
			p.c.logger.Debug("tx poll failed", "hash", p.Hash(), "err", err)
		}
		return err
	}

	b := backoff.WithContext(backoff.NewConstantBackOff(p.c.pollInterval), ctx)
	if err := backoff.Retry(poll, b); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, errorsmod.Wrapf(types.ErrConfirmationTimeout, "%s %s", p.typ, p.Hash())
		}
		return Result{}, errorsmod.Wrapf(types.ErrConfirmation, "%s %s: %v", p.typ, p.Hash(), err)
	}
	if res.TxResult.Code != 0 {
		return Result{}, errorsmod.Wrapf(types.ErrConfirmation, "%s %s reverted: code=%d log=%q",
			p.typ, p.Hash(), res.TxResult.Code, res.TxResult.Log)
	}
	out := Result{Hash: p.Hash(), Height: res.Height, Log: res.TxResult.Log}
	for _, ev := range res.TxResult.Events {
		if !types.IsBlackjackEvent(ev.Type) {
			continue
		}
		e := Event{Type: ev.Type}
		for _, a := range ev.Attributes {
			e.Attributes = append(e.Attributes, Attribute{Key: a.Key, Value: a.Value})
		}
		out.Events = append(out.Events, e)
	}
	return out, nil
}

// isNotFound matches the node's answer for a tx that is not in a block yet.
func isNotFound(err error) bool {
	return strings.Contains(err.Error(), "not found")
}
