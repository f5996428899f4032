package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"onchainblackjack/internal/config"
	"onchainblackjack/internal/contract"
	"onchainblackjack/internal/dispatch"
	"onchainblackjack/internal/types"
	"onchainblackjack/internal/view"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestKeysAddAndShow(t *testing.T) {
	home := t.TempDir()

	addr, err := execute(t, "keys", "add", "--home", home, "--log-level", "error")
	require.NoError(t, err)
	addr = strings.TrimSpace(addr)
	require.Regexp(t, `^0x[0-9a-f]{64}$`, addr)
	require.FileExists(t, filepath.Join(home, "key.json"))

	out, err := execute(t, "keys", "show", "--home", home)
	require.NoError(t, err)
	require.Contains(t, out, "address: "+addr)

	_, err = execute(t, "keys", "add", "--home", home)
	require.ErrorContains(t, err, "already exists")

	_, err = execute(t, "keys", "add", "--home", home, "--force")
	require.NoError(t, err)
}

func TestKeysShowWithoutKey(t *testing.T) {
	_, err := execute(t, "keys", "show", "--home", t.TempDir())
	require.ErrorContains(t, err, "keys add")
}

func TestInvalidConfigIsRejected(t *testing.T) {
	_, err := execute(t, "keys", "show", "--home", t.TempDir(), "--log-format", "xml")
	require.ErrorContains(t, err, "log_format")
}

func TestParseBet(t *testing.T) {
	tb := &table{env: &env{cfg: config.Config{
		BetTiers: []sdkmath.Uint{sdkmath.NewUint(1000), sdkmath.NewUint(2000)},
	}}}

	bet, err := tb.parseBet("#2")
	require.NoError(t, err)
	require.Equal(t, "2000", bet.String())

	bet, err = tb.parseBet("750")
	require.NoError(t, err)
	require.Equal(t, "750", bet.String())

	_, err = tb.parseBet("#3")
	require.ErrorContains(t, err, "no bet tier")
	_, err = tb.parseBet("ten")
	require.Error(t, err)

	require.Equal(t, "#1=1000 #2=2000", tb.tiers())
}

func TestFlagName(t *testing.T) {
	require.Equal(t, "chain-id", flagName(config.KeyChainID))
	require.Equal(t, "node", flagName(config.KeyNode))
}

// tableClient serves a fixed game and accepts no actions.
type tableClient struct {
	rec types.GameRecord
}

func (tableClient) Player() string                          { return "0xab" }
func (tableClient) Network(context.Context) (string, error) { return "blackjack-1", nil }

func (c tableClient) GameState(context.Context, string) (types.GameRecord, error) {
	return c.rec, nil
}

func (tableClient) Balance(context.Context, string, string) (sdkmath.Uint, error) {
	return sdkmath.NewUint(5000), nil
}

func (tableClient) Start(context.Context, string, sdkmath.Uint, string) (contract.PendingRequest, error) {
	return nil, types.ErrSubmission
}

func (tableClient) Hit(context.Context, string) (contract.PendingRequest, error) {
	return nil, types.ErrSubmission
}

func (tableClient) Stand(context.Context, string) (contract.PendingRequest, error) {
	return nil, types.ErrSubmission
}

func (tableClient) Redeem(context.Context, types.Outcome) (contract.PendingRequest, error) {
	return nil, types.ErrSubmission
}

func (tableClient) Fund(context.Context, sdkmath.Uint, string) (contract.PendingRequest, error) {
	return nil, types.ErrSubmission
}

func TestTableShowsBannerOnce(t *testing.T) {
	rec := types.EmptyRecord()
	rec.Outcome = types.OutcomeBlackJack
	rec.PlayerCards = []uint32{0, 12}
	rec.DealerCards = []uint32{4, 8}
	rec.Bet = sdkmath.NewUint(1000)

	s, err := dispatch.Connect(context.Background(), tableClient{rec: rec}, "blackjack-1", "ubj")
	require.NoError(t, err)
	d := dispatch.New(s)
	require.NoError(t, d.Refresh(context.Background()))

	var out bytes.Buffer
	tb := &table{
		env: &env{cfg: config.Config{Asset: "ubj"}, logger: log.NewNopLogger()},
		d:   d,
		out: &out,
		bet: sdkmath.NewUint(1000),
	}
	tb.draw()

	banner := view.StatusMessage(types.OutcomeBlackJack)
	require.Equal(t, 1, strings.Count(out.String(), banner), out.String())
	require.Contains(t, out.String(), "Actions redeem new fund")
}

func TestPlayNotifier(t *testing.T) {
	e := &env{cfg: config.Config{LogFormat: "plain"}, logger: log.NewNopLogger()}
	require.IsType(t, dispatch.WriterNotifier{}, e.playNotifier(&bytes.Buffer{}))

	e.cfg.LogFormat = "json"
	require.IsType(t, dispatch.LogNotifier{}, e.playNotifier(&bytes.Buffer{}))
}
