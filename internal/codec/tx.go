package codec

import (
	"encoding/json"
	"fmt"
)

// TxEnvelope is the v0 transaction container understood by the contract host.
//
// CometBFT transactions are opaque bytes; the host routes JSON envelopes by
// Type and authenticates them with the Ed25519 signature in Sig.
type TxEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Nonce must increase per signer; Sig covers (type, nonce, signer, sha256(value)).
	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

// NewTxEnvelope wraps a typed payload. The result is unsigned.
func NewTxEnvelope(typ string, value any) (TxEnvelope, error) {
	if typ == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	b, err := json.Marshal(value)
	if err != nil {
		return TxEnvelope{}, fmt.Errorf("encode %s value: %w", typ, err)
	}
	return TxEnvelope{Type: typ, Value: b}, nil
}

func (e TxEnvelope) Bytes() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode tx: %w", err)
	}
	return b, nil
}

// ---- Blackjack ----

// Forward is an asset transfer attached to a contract call.
type Forward struct {
	Amount string `json:"amount"`
	Asset  string `json:"asset"`
}

type BlackjackStartTx struct {
	Contract string  `json:"contract"`
	Player   string  `json:"player"`
	Seed     string  `json:"seed"`
	Bet      string  `json:"bet"`
	Forward  Forward `json:"forward"`
}

type BlackjackHitTx struct {
	Contract string `json:"contract"`
	Player   string `json:"player"`
	Seed     string `json:"seed"`
}

type BlackjackStandTx struct {
	Contract string `json:"contract"`
	Player   string `json:"player"`
	Seed     string `json:"seed"`
}

type BlackjackRedeemTx struct {
	Contract string `json:"contract"`
	Player   string `json:"player"`
	Outcome  string `json:"outcome"` // Win|BlackJack|Push
}

type BlackjackFundTx struct {
	Contract string  `json:"contract"`
	Player   string  `json:"player"`
	Forward  Forward `json:"forward"`
}
