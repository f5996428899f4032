package codec

import (
	"bytes"
	"encoding/json"
	"testing"
)

func decodeEnvelope(t *testing.T, b []byte) TxEnvelope {
	t.Helper()
	var env TxEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return env
}

func TestTxEnvelope_WireFields(t *testing.T) {
	env, err := NewTxEnvelope("blackjack/hit", BlackjackHitTx{Player: "0xab", Seed: "0x01"})
	if err != nil {
		t.Fatalf("NewTxEnvelope: %v", err)
	}
	b, err := env.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["type"]; !ok {
		t.Fatalf("missing type field: %s", b)
	}
	for _, k := range []string{"nonce", "signer", "sig"} {
		if _, ok := raw[k]; ok {
			t.Fatalf("unsigned envelope carries %q: %s", k, b)
		}
	}

	var v BlackjackHitTx
	if err := json.Unmarshal(decodeEnvelope(t, b).Value, &v); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if v.Player != "0xab" || v.Seed != "0x01" {
		t.Fatalf("unexpected value: %#v", v)
	}
}

func TestNewTxEnvelope_RoundTrip(t *testing.T) {
	env, err := NewTxEnvelope("blackjack/start", BlackjackStartTx{
		Contract: "0xc0",
		Player:   "0xab",
		Seed:     "0x02",
		Bet:      "1000",
		Forward:  Forward{Amount: "1000", Asset: "ubj"},
	})
	if err != nil {
		t.Fatalf("NewTxEnvelope: %v", err)
	}
	env.Nonce = "5"
	env.Signer = "0xab"
	env.Sig = bytes.Repeat([]byte{7}, 64)

	b, err := env.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	got := decodeEnvelope(t, b)
	if got.Nonce != "5" || got.Signer != "0xab" || !bytes.Equal(got.Sig, env.Sig) {
		t.Fatalf("auth fields lost: %#v", got)
	}

	var start BlackjackStartTx
	if err := json.Unmarshal(got.Value, &start); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if start.Forward.Amount != "1000" || start.Forward.Asset != "ubj" {
		t.Fatalf("forward lost: %#v", start.Forward)
	}
}

func TestNewTxEnvelope_MissingType(t *testing.T) {
	if _, err := NewTxEnvelope("", BlackjackFundTx{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSignBytes_CoversEveryField(t *testing.T) {
	base := TxAuthSignBytesV0("blackjack/hit", []byte(`{"seed":"0x01"}`), "1", "0xab")
	variants := [][]byte{
		TxAuthSignBytesV0("blackjack/stand", []byte(`{"seed":"0x01"}`), "1", "0xab"),
		TxAuthSignBytesV0("blackjack/hit", []byte(`{"seed":"0x02"}`), "1", "0xab"),
		TxAuthSignBytesV0("blackjack/hit", []byte(`{"seed":"0x01"}`), "2", "0xab"),
		TxAuthSignBytesV0("blackjack/hit", []byte(`{"seed":"0x01"}`), "1", "0xac"),
	}
	for i, v := range variants {
		if bytes.Equal(base, v) {
			t.Fatalf("variant %d produced identical sign bytes", i)
		}
	}
	if !bytes.HasPrefix(base, []byte(TxAuthDomainV0+"\x00")) {
		t.Fatalf("sign bytes missing domain prefix")
	}
}
