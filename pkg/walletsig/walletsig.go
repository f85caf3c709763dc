// Package walletsig implements Ethereum personal-sign message signing and
// signer recovery for browser-wallet style signatures.
package walletsig

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// legacyV is the recovery id offset wallets add when producing personal_sign output.
const legacyV = 27

// ErrMalformedSignature is returned when the signature cannot be decoded into 65 bytes.
var ErrMalformedSignature = errors.New("malformed signature")

// Hash returns the personal-sign digest of the message:
// keccak256("\x19Ethereum Signed Message:\n" + len(message) + message).
func Hash(message string) []byte {
	return accounts.TextHash([]byte(message))
}

// Sign produces a 0x-prefixed personal-sign signature with V in {27, 28},
// matching what MetaMask and similar wallets return.
func Sign(message string, privateKey *ecdsa.PrivateKey) (string, error) {
	sig, err := crypto.Sign(Hash(message), privateKey)
	if err != nil {
		return "", err
	}
	sig[crypto.RecoveryIDOffset] += legacyV
	return hexutil.Encode(sig), nil
}

// Recover extracts the address that signed the exact message bytes.
func Recover(message, signature string) (common.Address, error) {
	sig, err := decodeSignature(signature)
	if err != nil {
		return common.Address{}, err
	}

	publicKey, err := crypto.SigToPub(Hash(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*publicKey), nil
}

// SameAddress compares two hex addresses case-insensitively.
func SameAddress(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

// CanonicalMessage serialises fields as JSON with sorted keys so signer and
// verifier always agree on the byte sequence.
func CanonicalMessage(fields map[string]any) (string, error) {
	// encoding/json sorts map keys.
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}
	return string(data), nil
}

func decodeSignature(signature string) ([]byte, error) {
	signature = strings.TrimSpace(signature)
	if !strings.HasPrefix(signature, "0x") && !strings.HasPrefix(signature, "0X") {
		signature = "0x" + signature
	}
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedSignature, crypto.SignatureLength, len(sig))
	}

	// Copy so the caller's slice is never mutated, then normalise V to {0, 1}.
	out := make([]byte, crypto.SignatureLength)
	copy(out, sig)
	if out[crypto.RecoveryIDOffset] >= legacyV {
		out[crypto.RecoveryIDOffset] -= legacyV
	}
	if out[crypto.RecoveryIDOffset] > 1 {
		return nil, fmt.Errorf("%w: invalid recovery id", ErrMalformedSignature)
	}
	return out, nil
}
