package signature_test

import (
	"testing"

	"github.com/beanapologist/productive-mining/foundation/platform/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

type record struct {
	ID    uint64 `json:"id"`
	Value string `json:"value"`
}

func Test_Hash(t *testing.T) {
	r := record{ID: 1, Value: "riemann"}

	first := signature.Hash(r)
	second := signature.Hash(r)

	if first != second {
		t.Fatal("expected the same hash for the same value")
	}
	if first == signature.ZeroHash {
		t.Fatal("expected a non-zero hash")
	}
	if first == signature.Hash(record{ID: 2, Value: "riemann"}) {
		t.Fatal("expected a different hash for a different value")
	}
}

func Test_SignVerify(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	r := record{ID: 1, Value: "goldbach"}

	sig, err := signature.Sign(r, key)
	if err != nil {
		t.Fatalf("unable to sign: %v", err)
	}

	if err := signature.Verify(r, sig, &key.PublicKey); err != nil {
		t.Fatalf("expected the signature to verify: %v", err)
	}

	tampered := record{ID: 1, Value: "poincare"}
	if err := signature.Verify(tampered, sig, &key.PublicKey); err == nil {
		t.Fatal("expected verification to fail for a tampered value")
	}

	other, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	if err := signature.Verify(r, sig, &other.PublicKey); err == nil {
		t.Fatal("expected verification to fail for the wrong key")
	}
}

func Test_VerifyRejectsGarbage(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}

	if err := signature.Verify(record{}, "not-hex", &key.PublicKey); err == nil {
		t.Fatal("expected an error for a malformed signature")
	}
}
