// Package signature provides helper functions for hashing and signing the
// records produced by the platform. The block hashes exist to link records
// together, not to provide tamper evidence, the chain is only re-validated
// on demand.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Hash returns a unique string for the value.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// Sign uses the specified private key to sign the value. The signature is
// returned in hex form for storage on a work record.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", fmt.Errorf("signing value: %w", err)
	}

	return hexutil.Encode(sig), nil
}

// Verify checks the specified signature was produced over the value by the
// holder of the specified public key.
func Verify(value any, sigStr string, publicKey *ecdsa.PublicKey) error {
	sig, err := hexutil.Decode(sigStr)
	if err != nil {
		return fmt.Errorf("decoding signature: %w", err)
	}

	data, err := stamp(value)
	if err != nil {
		return err
	}

	if len(sig) < crypto.RecoveryIDOffset {
		return errors.New("signature has wrong length")
	}

	rs := sig[:crypto.RecoveryIDOffset]
	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, rs) {
		return errors.New("invalid signature")
	}

	return nil
}

// stamp returns a hash of 32 bytes that represents the value with a stamp
// embedded into the final hash so the signatures are clearly produced by
// this platform.
func stamp(value any) ([]byte, error) {
	v, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	stamp := []byte(fmt.Sprintf("\x19Productive Mining Signed Record:\n%d", len(v)))

	data := sha256.Sum256(append(stamp, v...))
	return data[:], nil
}
