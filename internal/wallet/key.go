package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"onchainblackjack/internal/codec"
)

// Key is a player's signing key. The address derived from it is the player
// identity the contract keys game records by.
type Key struct {
	priv ed25519.PrivateKey
	addr string

	mu        sync.Mutex
	lastNonce uint64
}

// keyFile is the on-disk form of a Key.
type keyFile struct {
	Address string `json:"address"`
	PubKey  []byte `json:"pubKey"`  // base64 (32 bytes)
	PrivKey []byte `json:"privKey"` // base64 (64 bytes)
}

func Generate() (*Key, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return FromPrivateKey(priv)
}

func FromPrivateKey(priv ed25519.PrivateKey) (*Key, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("privKey must be %d bytes", ed25519.PrivateKeySize)
	}
	pub := priv.Public().(ed25519.PublicKey)
	return &Key{priv: priv, addr: Address(pub)}, nil
}

// Address is the b256 form of a public key: 0x || hex(sha256(pub)).
func Address(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return "0x" + hex.EncodeToString(sum[:])
}

func (k *Key) Address() string { return k.addr }

func (k *Key) PubKey() ed25519.PublicKey { return k.priv.Public().(ed25519.PublicKey) }

func Load(path string) (*Key, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	var f keyFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	k, err := FromPrivateKey(ed25519.PrivateKey(f.PrivKey))
	if err != nil {
		return nil, err
	}
	if f.Address != "" && f.Address != k.addr {
		return nil, fmt.Errorf("key file address %s does not match key (%s)", f.Address, k.addr)
	}
	return k, nil
}

func (k *Key) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir key dir: %w", err)
	}
	b, err := json.MarshalIndent(keyFile{
		Address: k.addr,
		PubKey:  k.PubKey(),
		PrivKey: k.priv,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode key: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write key: %w", err)
	}
	return nil
}

// Sign stamps env with this key's address, a fresh nonce and the signature.
func (k *Key) Sign(env *codec.TxEnvelope) {
	env.Signer = k.addr
	env.Nonce = strconv.FormatUint(k.nextNonce(), 10)
	env.Sig = ed25519.Sign(k.priv, env.SignBytes())
}

// nextNonce is strictly increasing for the life of the key, seeded from the
// wall clock so restarts keep moving forward.
func (k *Key) nextNonce() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()

	n := uint64(time.Now().UnixNano())
	if n <= k.lastNonce {
		n = k.lastNonce + 1
	}
	k.lastNonce = n
	return n
}
