package crypto

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	eth_crypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/uhyunpark/ordergate/pkg/app/core/order"
	"github.com/uhyunpark/ordergate/pkg/num"
)

func TestGenerateKey(t *testing.T) {
	signer, err := GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	if signer.Address() == (common.Address{}) {
		t.Error("generated zero address")
	}

	// 32 bytes
	if len(signer.PrivateKeyHex()) != 64 {
		t.Errorf("private key hex length = %d, want 64", len(signer.PrivateKeyHex()))
	}
}

func TestFromPrivateKeyHex(t *testing.T) {
	signer1, _ := GenerateKey()
	privHex := signer1.PrivateKeyHex()

	for _, key := range []string{privHex, "0x" + privHex} {
		signer2, err := FromPrivateKeyHex(key)
		if err != nil {
			t.Fatalf("failed to load key %q: %v", key, err)
		}
		if signer2.Address() != signer1.Address() {
			t.Errorf("address = %s, want %s", signer2.Address().Hex(), signer1.Address().Hex())
		}
	}

	if _, err := FromPrivateKeyHex("zz"); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestRecoverAddress(t *testing.T) {
	signer, _ := GenerateKey()
	hash := eth_crypto.Keccak256Hash([]byte("Test message")).Bytes()

	signature, err := signer.Sign(hash)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	recovered, err := RecoverAddress(hash, signature)
	if err != nil {
		t.Fatalf("failed to recover address: %v", err)
	}
	if recovered != signer.Address() {
		t.Errorf("recovered address = %s, want %s", recovered.Hex(), signer.Address().Hex())
	}

	// Wallets emit V as 27/28.
	walletSig := append([]byte(nil), signature...)
	walletSig[64] += 27
	recovered, err = RecoverAddress(hash, walletSig)
	if err != nil {
		t.Fatalf("failed to recover from wallet-style signature: %v", err)
	}
	if recovered != signer.Address() {
		t.Errorf("wallet-style recovered address = %s, want %s", recovered.Hex(), signer.Address().Hex())
	}
	if signature[64] >= 27 {
		t.Error("RecoverAddress mutated caller's signature")
	}
}

func TestInvalidSignature(t *testing.T) {
	hash := common.BytesToHash([]byte("test")).Bytes()

	if _, err := RecoverAddress(hash, []byte{1, 2, 3}); err == nil {
		t.Error("short signature should not recover")
	}
	if _, err := RecoverAddress([]byte("short"), make([]byte, 65)); err == nil {
		t.Error("short hash should not recover")
	}
	if _, err := (&Signer{}).Sign([]byte("short")); err == nil {
		t.Error("signing a short hash should fail")
	}
}

func TestDecodeSignature(t *testing.T) {
	signer, _ := GenerateKey()
	hash := eth_crypto.Keccak256Hash([]byte("x")).Bytes()
	sig, _ := signer.Sign(hash)

	decoded, err := DecodeSignature(EncodeSignature(sig))
	if err != nil {
		t.Fatalf("DecodeSignature: %v", err)
	}
	if string(decoded) != string(sig) {
		t.Error("decoded signature differs from original")
	}

	if _, err := DecodeSignature("0x1234"); err == nil {
		t.Error("expected length error")
	}
	if _, err := DecodeSignature("0xnothex"); err == nil {
		t.Error("expected hex error")
	}
}

func testOrder(owner common.Address) order.Order {
	return order.Order{
		ID:               "ord-1",
		Symbol:           "SOL-PERP",
		Owner:            owner,
		Type:             order.Limit,
		Direction:        order.Long,
		Price:            num.NewUint(1_000_000_000_000),
		BaseAssetAmount:  num.NewUint(50_000_000_000_000),
		QuoteAssetAmount: num.Zero(),
		TriggerPrice:     num.Zero(),
	}
}

func TestEIP712_SignAndRecoverOrder(t *testing.T) {
	signer, _ := GenerateKey()
	e := NewEIP712Signer(DefaultDomain())
	o := testOrder(signer.Address())

	sig, err := e.SignOrder(signer, o)
	if err != nil {
		t.Fatalf("SignOrder: %v", err)
	}

	recovered, err := e.RecoverOrderSigner(o, sig)
	if err != nil {
		t.Fatalf("RecoverOrderSigner: %v", err)
	}
	if recovered != signer.Address() {
		t.Errorf("recovered %s, want %s", recovered.Hex(), signer.Address().Hex())
	}

	ok, err := e.VerifyOrderSignature(o, sig)
	if err != nil || !ok {
		t.Errorf("VerifyOrderSignature = %v, %v; want true", ok, err)
	}
}

func TestEIP712_TamperedOrderFailsVerification(t *testing.T) {
	signer, _ := GenerateKey()
	e := NewEIP712Signer(DefaultDomain())
	o := testOrder(signer.Address())

	sig, err := e.SignOrder(signer, o)
	if err != nil {
		t.Fatalf("SignOrder: %v", err)
	}

	tampered := o
	tampered.BaseAssetAmount = num.NewUint(1)
	ok, err := e.VerifyOrderSignature(tampered, sig)
	if err != nil {
		t.Fatalf("VerifyOrderSignature: %v", err)
	}
	if ok {
		t.Error("tampered order verified")
	}
}

func TestEIP712_DomainSeparatesSignatures(t *testing.T) {
	signer, _ := GenerateKey()
	o := testOrder(signer.Address())

	other := DefaultDomain()
	other.Name = "SomethingElse"

	h1, err := NewEIP712Signer(DefaultDomain()).HashOrder(o)
	if err != nil {
		t.Fatalf("HashOrder: %v", err)
	}
	h2, err := NewEIP712Signer(other).HashOrder(o)
	if err != nil {
		t.Fatalf("HashOrder: %v", err)
	}
	if string(h1) == string(h2) {
		t.Error("different domains produced the same digest")
	}
	if len(h1) != 32 {
		t.Errorf("digest length = %d, want 32", len(h1))
	}
}
