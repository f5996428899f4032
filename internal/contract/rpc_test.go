package contract

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"onchainblackjack/internal/codec"
	"onchainblackjack/internal/types"
	"onchainblackjack/internal/wallet"
)

// stubNode answers the handful of CometBFT RPC methods the client uses.
type stubNode struct {
	t *testing.T

	mu        sync.Mutex
	network   string
	queries   map[string]string // path -> JSON value
	queryCode uint32
	checkCode uint32
	txCode    uint32
	// pendingPolls is how many "tx" polls answer not-found before the tx is final.
	pendingPolls int
	neverFinal   bool
	submitted    []codec.TxEnvelope
}

type rpcRequest struct {
	ID     json.RawMessage            `json:"id"`
	Method string                     `json:"method"`
	Params map[string]json.RawMessage `json:"params"`
}

func (s *stubNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	require.NoError(s.t, err)
	var req rpcRequest
	require.NoError(s.t, json.Unmarshal(body, &req))

	s.mu.Lock()
	defer s.mu.Unlock()

	result, rpcErr := s.handle(req)
	w.Header().Set("Content-Type", "application/json")
	if rpcErr != "" {
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"error":{"code":-32603,"message":"Internal error","data":%q}}`, req.ID, rpcErr)
		return
	}
	fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":%s}`, req.ID, result)
}

func (s *stubNode) handle(req rpcRequest) (string, string) {
	switch req.Method {
	case "status":
		return fmt.Sprintf(`{"node_info":{"network":%q}}`, s.network), ""

	case "abci_query":
		var path string
		require.NoError(s.t, json.Unmarshal(req.Params["path"], &path))
		if s.queryCode != 0 {
			return fmt.Sprintf(`{"response":{"code":%d,"log":"boom","height":"3"}}`, s.queryCode), ""
		}
		v, ok := s.queries[path]
		if !ok {
			return `{"response":{"code":0,"height":"3"}}`, ""
		}
		return fmt.Sprintf(`{"response":{"code":0,"value":%q,"height":"3"}}`,
			base64.StdEncoding.EncodeToString([]byte(v))), ""

	case "broadcast_tx_sync":
		var tx []byte
		require.NoError(s.t, json.Unmarshal(req.Params["tx"], &tx))
		var env codec.TxEnvelope
		require.NoError(s.t, json.Unmarshal(tx, &env))
		s.submitted = append(s.submitted, env)
		if s.checkCode != 0 {
			return fmt.Sprintf(`{"code":%d,"log":"insufficient funds","hash":"AB12"}`, s.checkCode), ""
		}
		return `{"code":0,"hash":"AB12"}`, ""

	case "tx":
		var hash []byte
		require.NoError(s.t, json.Unmarshal(req.Params["hash"], &hash))
		require.Equal(s.t, "AB12", strings.ToUpper(hex.EncodeToString(hash)))
		if s.neverFinal || s.pendingPolls > 0 {
			s.pendingPolls--
			return "", "tx (AB12) not found"
		}
		return fmt.Sprintf(`{"hash":"AB12","height":"7","index":0,"tx_result":{"code":%d,"log":"settled","events":%s}}`,
			s.txCode, settleEvents), ""
	}
	return "", "unknown method " + req.Method
}

// settleEvents mixes contract events with a host bookkeeping event.
const settleEvents = `[
	{"type":"tx","attributes":[{"key":"signer","value":"0xab","index":true}]},
	{"type":"GameSettled","attributes":[{"key":"outcome","value":"BlackJack","index":true}]},
	{"type":"PayoutIssued","attributes":[{"key":"amount","value":"2500","index":true},{"key":"asset","value":"ubj","index":true}]}
]`

func newStub(t *testing.T) (*stubNode, *RPCClient, *wallet.Key) {
	t.Helper()
	stub := &stubNode{t: t, network: "blackjack-1", queries: map[string]string{}}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	key, err := wallet.Generate()
	require.NoError(t, err)

	c, err := Dial(srv.URL, "0xc0", key, WithPollInterval(time.Millisecond))
	require.NoError(t, err)
	return stub, c, key
}

func TestRPCClient_Network(t *testing.T) {
	_, c, _ := newStub(t)
	network, err := c.Network(context.Background())
	require.NoError(t, err)
	require.Equal(t, "blackjack-1", network)
}

func TestRPCClient_GameState(t *testing.T) {
	stub, c, key := newStub(t)
	stub.queries[types.GameStatePath("0xc0", key.Address())] =
		`{"playerCards":[0,10],"dealerCards":[5],"playerScore":21,"dealerScore":6,"outcome":"Continue","bet":"1000"}`

	rec, err := c.GameState(context.Background(), key.Address())
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 10}, rec.PlayerCards)
	require.Equal(t, types.OutcomeContinue, rec.Outcome)
	require.Equal(t, "1000", rec.Bet.String())
}

func TestRPCClient_GameState_NoGame(t *testing.T) {
	_, c, key := newStub(t)
	rec, err := c.GameState(context.Background(), key.Address())
	require.NoError(t, err)
	require.False(t, rec.HasStake())
}

func TestRPCClient_QueryError(t *testing.T) {
	stub, c, key := newStub(t)
	stub.queryCode = 5
	_, err := c.Balance(context.Background(), key.Address(), "ubj")
	require.ErrorIs(t, err, types.ErrQuery)
}

func TestRPCClient_Balance(t *testing.T) {
	stub, c, key := newStub(t)
	stub.queries[types.BalancePath(key.Address(), "ubj")] = `{"addr":"x","asset":"ubj","balance":"4200"}`

	bal, err := c.Balance(context.Background(), key.Address(), "ubj")
	require.NoError(t, err)
	require.True(t, bal.Equal(sdkmath.NewUint(4200)))
}

func TestRPCClient_StartSignsAndWaits(t *testing.T) {
	stub, c, key := newStub(t)
	stub.pendingPolls = 3

	pending, err := c.Start(context.Background(), "0x01", sdkmath.NewUint(1000), "ubj")
	require.NoError(t, err)
	require.Equal(t, "AB12", pending.Hash())

	res, err := pending.Wait(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 7, res.Height)
	require.Equal(t, "settled", res.Log)

	require.Len(t, res.Events, 2)
	require.Equal(t, types.EventTypeGameSettled, res.Events[0].Type)
	outcome, ok := res.Events[0].Attr(types.AttributeKeyOutcome)
	require.True(t, ok)
	require.Equal(t, "BlackJack", outcome)
	amount, ok := res.Events[1].Attr(types.AttributeKeyAmount)
	require.True(t, ok)
	require.Equal(t, "2500", amount)
	_, ok = res.Events[1].Attr("missing")
	require.False(t, ok)

	require.Len(t, stub.submitted, 1)
	env := stub.submitted[0]
	require.Equal(t, types.TxTypeStart, env.Type)
	require.Equal(t, key.Address(), env.Signer)
	require.True(t, ed25519.Verify(key.PubKey(), env.SignBytes(), env.Sig))

	var start codec.BlackjackStartTx
	require.NoError(t, json.Unmarshal(env.Value, &start))
	require.Equal(t, "0x01", start.Seed)
	require.Equal(t, codec.Forward{Amount: "1000", Asset: "ubj"}, start.Forward)
	require.Equal(t, "0xc0", start.Contract)
}

func TestRPCClient_RedeemSendsOutcomeTag(t *testing.T) {
	stub, c, _ := newStub(t)

	_, err := c.Redeem(context.Background(), types.OutcomeBlackJack)
	require.NoError(t, err)

	var redeem codec.BlackjackRedeemTx
	require.NoError(t, json.Unmarshal(stub.submitted[0].Value, &redeem))
	require.Equal(t, "BlackJack", redeem.Outcome)

	_, err = c.Redeem(context.Background(), types.OutcomeLose)
	require.ErrorIs(t, err, types.ErrActionDisabled)
	require.Len(t, stub.submitted, 1)
}

func TestRPCClient_CheckTxRejected(t *testing.T) {
	stub, c, _ := newStub(t)
	stub.checkCode = 4

	_, err := c.Hit(context.Background(), "0x02")
	require.ErrorIs(t, err, types.ErrSubmission)
	require.Contains(t, err.Error(), "insufficient funds")
}

func TestRPCClient_TxReverted(t *testing.T) {
	stub, c, _ := newStub(t)
	stub.txCode = 9

	pending, err := c.Stand(context.Background(), "0x03")
	require.NoError(t, err)
	_, err = pending.Wait(context.Background())
	require.ErrorIs(t, err, types.ErrConfirmation)
}

func TestRPCClient_WaitTimesOut(t *testing.T) {
	stub, c, _ := newStub(t)
	stub.neverFinal = true

	pending, err := c.Fund(context.Background(), sdkmath.NewUint(10), "ubj")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = pending.Wait(ctx)
	require.ErrorIs(t, err, types.ErrConfirmationTimeout)
}

func TestDial_Unreachable(t *testing.T) {
	key, err := wallet.Generate()
	require.NoError(t, err)

	c, err := Dial("http://127.0.0.1:1", "0xc0", key)
	require.NoError(t, err)
	_, err = c.Network(context.Background())
	require.ErrorIs(t, err, types.ErrNodeUnreachable)
}
