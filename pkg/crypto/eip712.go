package crypto

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/uhyunpark/ordergate/pkg/app/core/order"
)

// EIP712Domain represents the domain separator for EIP-712 typed data
// This prevents replay attacks across different chains/contracts
type EIP712Domain struct {
	Name              string         // Protocol name (e.g., "OrderGate")
	Version           string         // Protocol version (e.g., "1")
	ChainID           *big.Int       // Chain ID (1337 for local, 1 for mainnet)
	VerifyingContract common.Address // Contract address (or zero for off-chain)
}

// DefaultDomain returns the default EIP-712 domain for the gate
func DefaultDomain() EIP712Domain {
	return EIP712Domain{
		Name:              "OrderGate",
		Version:           "1",
		ChainID:           big.NewInt(1337), // Local dev chain
		VerifyingContract: common.Address{}, // Zero address for off-chain signing
	}
}

var orderTypes = apitypes.Types{
	"EIP712Domain": []apitypes.Type{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Order": []apitypes.Type{
		{Name: "id", Type: "string"},
		{Name: "symbol", Type: "string"},
		{Name: "owner", Type: "address"},
		{Name: "orderType", Type: "uint8"},
		{Name: "direction", Type: "uint8"},
		{Name: "price", Type: "uint256"},
		{Name: "triggerPrice", Type: "uint256"},
		{Name: "triggerCondition", Type: "uint8"},
		{Name: "baseAssetAmount", Type: "uint256"},
		{Name: "quoteAssetAmount", Type: "uint256"},
	},
}

// EIP712Signer handles EIP-712 typed data hashing for orders
type EIP712Signer struct {
	domain EIP712Domain
}

// NewEIP712Signer creates a new EIP-712 signer with given domain
func NewEIP712Signer(domain EIP712Domain) *EIP712Signer {
	return &EIP712Signer{domain: domain}
}

// HashOrder hashes an order according to EIP-712 spec
// Returns the digest that should be signed
func (e *EIP712Signer) HashOrder(o order.Order) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              e.domain.Name,
			Version:           e.domain.Version,
			ChainId:           (*math.HexOrDecimal256)(e.domain.ChainID),
			VerifyingContract: e.domain.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"id":               o.ID,
			"symbol":           o.Symbol,
			"owner":            o.Owner.Hex(),
			"orderType":        fmt.Sprintf("%d", o.Type),
			"direction":        fmt.Sprintf("%d", o.Direction),
			"price":            o.Price.String(),
			"triggerPrice":     o.TriggerPrice.String(),
			"triggerCondition": fmt.Sprintf("%d", o.TriggerCondition),
			"baseAssetAmount":  o.BaseAssetAmount.String(),
			"quoteAssetAmount": o.QuoteAssetAmount.String(),
		},
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to hash domain: %w", err)
	}

	typedDataHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to hash message: %w", err)
	}

	// Final digest: keccak256("\x19\x01" || domainSeparator || typedDataHash)
	rawData := []byte(fmt.Sprintf("\x19\x01%s%s", string(domainSeparator), string(typedDataHash)))
	digest := crypto.Keccak256Hash(rawData)

	return digest.Bytes(), nil
}

// SignOrder signs an order and returns the 65-byte signature
func (e *EIP712Signer) SignOrder(signer *Signer, o order.Order) ([]byte, error) {
	hash, err := e.HashOrder(o)
	if err != nil {
		return nil, fmt.Errorf("failed to hash order: %w", err)
	}

	signature, err := signer.Sign(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to sign order: %w", err)
	}

	return signature, nil
}

// RecoverOrderSigner recovers the address that signed an order
func (e *EIP712Signer) RecoverOrderSigner(o order.Order, signature []byte) (common.Address, error) {
	hash, err := e.HashOrder(o)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to hash order: %w", err)
	}

	return RecoverAddress(hash, signature)
}

// VerifyOrderSignature reports whether signature was produced by o.Owner
func (e *EIP712Signer) VerifyOrderSignature(o order.Order, signature []byte) (bool, error) {
	recovered, err := e.RecoverOrderSigner(o, signature)
	if err != nil {
		return false, err
	}
	return recovered == o.Owner, nil
}
