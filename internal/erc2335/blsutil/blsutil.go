// Package blsutil derives BLS12-381 G1 public keys from 32-byte secret
// scalars, the binding invariant ERC-2335 keystores carry in their
// "pubkey" field.
package blsutil

import (
	"fmt"

	bls12381 "github.com/kilic/bls12-381"
)

// SecretKeySize is the length in bytes of a BLS12-381 secret scalar.
const SecretKeySize = 32

// PublicKeySize is the length in bytes of a compressed BLS12-381 G1 point.
const PublicKeySize = 48

// DerivePublicKey computes the compressed G1 public key for a 32-byte
// secret scalar: pubkey = secretKey * G1.
func DerivePublicKey(secretKey []byte) ([]byte, error) {
	if len(secretKey) != SecretKeySize {
		return nil, fmt.Errorf("blsutil: secret key must be %d bytes, got %d", SecretKeySize, len(secretKey))
	}

	var scalar bls12381.Fr
	scalar.FromBytes(secretKey)

	g1 := bls12381.NewG1()
	generator := g1.One()

	point := bls12381.PointG1{}
	g1.MulScalar(&point, generator, &scalar)

	return g1.ToCompressed(&point), nil
}

// VerifyPublicKey reports whether pubkey is the G1 point derived from
// secretKey, the check behind invariant K1 in the decoder.
func VerifyPublicKey(secretKey, pubkey []byte) (bool, error) {
	derived, err := DerivePublicKey(secretKey)
	if err != nil {
		return false, err
	}
	if len(pubkey) != PublicKeySize {
		return false, fmt.Errorf("blsutil: public key must be %d bytes, got %d", PublicKeySize, len(pubkey))
	}

	diff := byte(0)
	for i := range derived {
		diff |= derived[i] ^ pubkey[i]
	}
	return diff == 0, nil
}
