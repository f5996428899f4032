package codec

import "crypto/sha256"

// TxAuthDomainV0 separates blackjack tx signatures from other signed payloads.
const TxAuthDomainV0 = "bj/tx/v0"

// TxAuthSignBytesV0 returns the bytes an envelope signature covers.
func TxAuthSignBytesV0(typ string, value []byte, nonce string, signer string) []byte {
	// signBytes = DOMAIN || 0x00 || type || 0x00 || nonce || 0x00 || signer || 0x00 || sha256(value)
	sum := sha256.Sum256(value)
	out := make([]byte, 0, len(TxAuthDomainV0)+1+len(typ)+1+len(nonce)+1+len(signer)+1+sha256.Size)
	out = append(out, []byte(TxAuthDomainV0)...)
	out = append(out, 0)
	out = append(out, []byte(typ)...)
	out = append(out, 0)
	out = append(out, []byte(nonce)...)
	out = append(out, 0)
	out = append(out, []byte(signer)...)
	out = append(out, 0)
	out = append(out, sum[:]...)
	return out
}

// SignBytes is TxAuthSignBytesV0 over the envelope's own fields.
func (e TxEnvelope) SignBytes() []byte {
	return TxAuthSignBytesV0(e.Type, e.Value, e.Nonce, e.Signer)
}
