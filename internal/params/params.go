package params

import "time"

const (
	// AppName is the human-readable name shown by the CLI.
	AppName = "OnChainBlackjack"

	// BinaryName is the name of the CLI binary produced by this module.
	BinaryName = "bjctl"

	// EnvPrefix is the environment variable prefix used by the config system.
	// Example: BJCTL_NODE, BJCTL_CHAIN_ID, etc.
	EnvPrefix = "BJCTL"

	// DefaultHomeDir is relative to the user's home directory.
	DefaultHomeDir = ".bjctl"

	// DefaultNode is the CometBFT RPC endpoint of a local devnet.
	DefaultNode = "http://127.0.0.1:26657"

	// DefaultChainID is the network the client expects unless configured otherwise.
	DefaultChainID = "blackjack-1"

	// DefaultContract identifies the blackjack contract instance on the chain.
	DefaultContract = "0x2c6b9268ddb24dec03be1e195ca892649f3b2a359c53d052fb0375d4a7615ad1"

	// BaseAsset is the denomination stakes and payouts are made in.
	BaseAsset = "ubj"

	// DefaultBet is the stake used when none is given.
	DefaultBet uint64 = 1000

	DefaultFinalizeTimeout = 60 * time.Second
	DefaultPollInterval    = 500 * time.Millisecond
)

// DefaultBetTiers are the stake presets offered by the interactive table.
var DefaultBetTiers = []uint64{1000, 2000, 3000, 10_000}
