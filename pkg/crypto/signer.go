package crypto

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer manages ECDSA key pairs for signing orders
// Uses secp256k1 curve (Ethereum-compatible)
type Signer struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// GenerateKey creates a new random secp256k1 key pair
func GenerateKey() (*Signer, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return &Signer{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// FromPrivateKeyHex creates a Signer from a hex-encoded private key
// Format: "0x1234..." or "1234..." (64 hex chars)
func FromPrivateKeyHex(hexKey string) (*Signer, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &Signer{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Address returns the Ethereum address derived from the public key
func (s *Signer) Address() common.Address {
	return s.address
}

// PrivateKeyHex returns the private key as hex string (WITHOUT 0x prefix)
// WARNING: Keep this secret! Never expose to users or logs
func (s *Signer) PrivateKeyHex() string {
	return fmt.Sprintf("%x", crypto.FromECDSA(s.privateKey))
}

// Sign signs a 32-byte hash and returns the signature in [R || S || V]
// format with V in {0, 1}
func (s *Signer) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}

	signature, err := crypto.Sign(hash, s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}

	return signature, nil
}

// RecoverAddress recovers the signer's address from a hash and signature.
// Wallet-style V values (27/28) are accepted.
func RecoverAddress(hash []byte, signature []byte) (common.Address, error) {
	if len(signature) != 65 {
		return common.Address{}, fmt.Errorf("invalid signature length: %d", len(signature))
	}
	if len(hash) != 32 {
		return common.Address{}, fmt.Errorf("invalid hash length: %d", len(hash))
	}

	sig := make([]byte, 65)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	publicKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*publicKey), nil
}

// DecodeSignature decodes hex-encoded signature (with or without 0x prefix)
func DecodeSignature(sig string) ([]byte, error) {
	sigBytes, err := hex.DecodeString(strings.TrimPrefix(sig, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex signature: %w", err)
	}

	if len(sigBytes) != 65 {
		return nil, fmt.Errorf("signature must be 65 bytes, got %d", len(sigBytes))
	}

	return sigBytes, nil
}

// EncodeSignature returns the 0x-prefixed hex form of a signature
func EncodeSignature(sig []byte) string {
	return "0x" + hex.EncodeToString(sig)
}
