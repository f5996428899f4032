package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"onchainblackjack/internal/params"
)

// Config keys. Each can be set in config.toml, as BJCTL_<KEY>, or by flag.
const (
	KeyHome            = "home"
	KeyNode            = "node"
	KeyChainID         = "chain_id"
	KeyContract        = "contract"
	KeyAsset           = "asset"
	KeyKeyFile         = "key_file"
	KeyFinalizeTimeout = "finalize_timeout"
	KeyPollInterval    = "poll_interval"
	KeyBet             = "bet"
	KeyBetTiers        = "bet_tiers"
	KeyExplorerURL     = "explorer_url"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyColor           = "color"
)

type Config struct {
	Home     string
	Node     string
	ChainID  string
	Contract string
	Asset    string
	KeyFile  string

	FinalizeTimeout time.Duration
	PollInterval    time.Duration

	Bet      sdkmath.Uint
	BetTiers []sdkmath.Uint

	// ExplorerURL is a format string taking the tx hash; empty disables links.
	ExplorerURL string

	LogLevel  string
	LogFormat string
	Color     bool
}

// DefaultHome is ~/.bjctl, falling back to ./.bjctl.
func DefaultHome() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(dir, params.DefaultHomeDir)
	}
	return params.DefaultHomeDir
}

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	tiers := make([]string, 0, len(params.DefaultBetTiers))
	for _, t := range params.DefaultBetTiers {
		tiers = append(tiers, fmt.Sprint(t))
	}

	v.SetDefault(KeyHome, DefaultHome())
	v.SetDefault(KeyNode, params.DefaultNode)
	v.SetDefault(KeyChainID, params.DefaultChainID)
	v.SetDefault(KeyContract, params.DefaultContract)
	v.SetDefault(KeyAsset, params.BaseAsset)
	v.SetDefault(KeyKeyFile, "")
	v.SetDefault(KeyFinalizeTimeout, params.DefaultFinalizeTimeout)
	v.SetDefault(KeyPollInterval, params.DefaultPollInterval)
	v.SetDefault(KeyBet, fmt.Sprint(params.DefaultBet))
	v.SetDefault(KeyBetTiers, tiers)
	v.SetDefault(KeyExplorerURL, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "plain")
	v.SetDefault(KeyColor, true)
}

// NewViper returns a viper instance reading BJCTL_* env vars, with defaults set.
// A .env file in the working directory is loaded into the environment first;
// variables already set win.
func NewViper() *viper.Viper {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: ignoring .env: %v\n", err)
	}

	v := viper.New()
	v.SetEnvPrefix(params.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// ReadFile merges <home>/config.toml into v when it exists.
func ReadFile(v *viper.Viper) error {
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(v.GetString(KeyHome))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load builds a validated Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Home:            v.GetString(KeyHome),
		Node:            strings.TrimSpace(v.GetString(KeyNode)),
		ChainID:         strings.TrimSpace(v.GetString(KeyChainID)),
		Contract:        strings.TrimSpace(v.GetString(KeyContract)),
		Asset:           strings.TrimSpace(v.GetString(KeyAsset)),
		KeyFile:         v.GetString(KeyKeyFile),
		FinalizeTimeout: v.GetDuration(KeyFinalizeTimeout),
		PollInterval:    v.GetDuration(KeyPollInterval),
		ExplorerURL:     v.GetString(KeyExplorerURL),
		LogLevel:        v.GetString(KeyLogLevel),
		LogFormat:       v.GetString(KeyLogFormat),
		Color:           v.GetBool(KeyColor),
	}
	if cfg.KeyFile == "" {
		cfg.KeyFile = filepath.Join(cfg.Home, "key.json")
	}

	bet, err := sdkmath.ParseUint(v.GetString(KeyBet))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", KeyBet, err)
	}
	cfg.Bet = bet

	for _, raw := range v.GetStringSlice(KeyBetTiers) {
		tier, err := sdkmath.ParseUint(strings.TrimSpace(raw))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s entry %q: %w", KeyBetTiers, raw, err)
		}
		cfg.BetTiers = append(cfg.BetTiers, tier)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Node == "":
		return fmt.Errorf("missing %s", KeyNode)
	case c.ChainID == "":
		return fmt.Errorf("missing %s", KeyChainID)
	case c.Contract == "":
		return fmt.Errorf("missing %s", KeyContract)
	case c.Asset == "":
		return fmt.Errorf("missing %s", KeyAsset)
	case c.FinalizeTimeout <= 0:
		return fmt.Errorf("%s must be positive", KeyFinalizeTimeout)
	case c.PollInterval <= 0:
		return fmt.Errorf("%s must be positive", KeyPollInterval)
	case c.Bet.IsZero():
		return fmt.Errorf("%s must be positive", KeyBet)
	}
	switch c.LogFormat {
	case "plain", "json":
	default:
		return fmt.Errorf("%s must be plain or json, got %q", KeyLogFormat, c.LogFormat)
	}
	return nil
}

// TxLink renders the explorer link for a tx hash, or the hash itself.
func (c Config) TxLink(hash string) string {
	if c.ExplorerURL == "" || !strings.Contains(c.ExplorerURL, "%s") {
		return hash
	}
	return fmt.Sprintf(c.ExplorerURL, hash)
}
