package dispatch

import (
	"fmt"
	"io"
	"strings"

	"cosmossdk.io/log"

	"onchainblackjack/internal/contract"
	"onchainblackjack/internal/types"
)

// Notifier surfaces action progress to the player. Failed is called for
// every error an action returns.
type Notifier interface {
	Submitted(action Action, hash string)
	Succeeded(action Action, res contract.Result)
	Failed(action Action, err error)
}

type NopNotifier struct{}

func (NopNotifier) Submitted(Action, string)          {}
func (NopNotifier) Succeeded(Action, contract.Result) {}
func (NopNotifier) Failed(Action, error)              {}

// LogNotifier reports through a logger.
type LogNotifier struct {
	Logger log.Logger
}

func (n LogNotifier) Submitted(action Action, hash string) {
	n.Logger.Info("transaction submitted", "action", action, "hash", hash)
}

func (n LogNotifier) Succeeded(action Action, res contract.Result) {
	n.Logger.Info("transaction finalized", "action", action, "hash", res.Hash, "height", res.Height)
	for _, ev := range res.Events {
		if line := describe(ev); line != "" {
			n.Logger.Info(line, "action", action, "event", ev.Type)
		}
	}
}

func (n LogNotifier) Failed(action Action, err error) {
	n.Logger.Error("action failed", "action", action, "err", err)
}

// WriterNotifier prints one line per event, for terminals.
type WriterNotifier struct {
	W io.Writer
	// Link turns a tx hash into something clickable; nil prints the hash.
	Link func(hash string) string
}

func (n WriterNotifier) link(hash string) string {
	if n.Link == nil {
		return hash
	}
	return n.Link(hash)
}

func (n WriterNotifier) Submitted(action Action, hash string) {
	fmt.Fprintf(n.W, "%s: submitted %s\n", action, n.link(hash))
}

func (n WriterNotifier) Succeeded(action Action, res contract.Result) {
	fmt.Fprintf(n.W, "%s: confirmed at height %d\n", action, res.Height)
	for _, ev := range res.Events {
		if line := describe(ev); line != "" {
			fmt.Fprintf(n.W, "%s: %s\n", action, line)
		}
	}
}

// describe turns the settlement events worth telling the player about into
// a sentence. Other events yield "".
func describe(ev contract.Event) string {
	switch ev.Type {
	case types.EventTypeGameSettled:
		outcome, _ := ev.Attr(types.AttributeKeyOutcome)
		return "game settled: " + outcome
	case types.EventTypePayoutIssued:
		amount, _ := ev.Attr(types.AttributeKeyAmount)
		asset, _ := ev.Attr(types.AttributeKeyAsset)
		return strings.TrimSpace("paid out " + amount + " " + asset)
	case types.EventTypeHouseFunded:
		amount, _ := ev.Attr(types.AttributeKeyAmount)
		asset, _ := ev.Attr(types.AttributeKeyAsset)
		return strings.TrimSpace("bankroll funded with " + amount + " " + asset)
	}
	return ""
}

func (n WriterNotifier) Failed(action Action, err error) {
	fmt.Fprintf(n.W, "%s: failed: %v\n", action, err)
}
