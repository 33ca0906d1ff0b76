// Package erc2335 decodes and encodes ERC-2335 JSON validator keystores:
// the encrypted container format that wraps a BLS12-381 secret key behind
// a scrypt- or PBKDF2-derived symmetric key.
package erc2335

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blocoeth/eth2-keyvault/internal/erc2335/blsutil"
	"github.com/blocoeth/eth2-keyvault/internal/erc2335/kdf"
)

const (
	keystoreVersion = 4

	saltFieldSize     = 32
	ivFieldSize       = 16
	checksumFieldSize = 32
	privkeyFieldSize  = 32

	cipherFunction   = "aes-128-ctr"
	checksumFunction = "sha256"
)

// KeystoreRecord is the immutable result of decoding (or the input to
// encoding) an ERC-2335 keystore.
//
// Invariant K1: derivePubkey(PrivateKey) == PublicKey, enforced at
// construction. Invariant K2: len(PrivateKey) == 32.
type KeystoreRecord struct {
	PublicKey  []byte // 48-byte BLS12-381 G1 compressed point
	PrivateKey []byte // 32-byte BLS12-381 scalar; zeroize when done
	Path       string // derivation path; only "" is accepted
	ReadOnly   bool   // always false for records built from disk
}

// Zeroize overwrites the secret scalar in place. Callers should invoke
// this once a record's private key is no longer needed.
func (r *KeystoreRecord) Zeroize() {
	for i := range r.PrivateKey {
		r.PrivateKey[i] = 0
	}
}

// keystoreDocument mirrors the ERC-2335 JSON schema. Unknown fields are
// ignored by encoding/json's default unmarshal behavior.
type keystoreDocument struct {
	Version int               `json:"version"`
	Path    string            `json:"path"`
	Pubkey  string            `json:"pubkey,omitempty"`
	Crypto  keystoreCryptoDoc `json:"crypto"`
}

type keystoreCryptoDoc struct {
	KDF      moduleDoc `json:"kdf"`
	Checksum moduleDoc `json:"checksum"`
	Cipher   moduleDoc `json:"cipher"`
}

// moduleDoc is the common shape of the kdf/checksum/cipher sub-objects:
// a function selector, a parameter bag, and a hex "message" payload.
type moduleDoc struct {
	Function string                 `json:"function"`
	Params   map[string]interface{} `json:"params"`
	Message  string                 `json:"message"`
}

// Decode parses and decrypts an ERC-2335 keystore document, returning the
// recovered keystore record. The password is sanitized internally;
// callers should pass the raw password bytes as read from disk.
func Decode(jsonBytes []byte, password []byte) (*KeystoreRecord, error) {
	var doc keystoreDocument
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, &MalformedJSONError{Cause: err}
	}

	if doc.Version != keystoreVersion {
		return nil, &UnsupportedVersionError{Got: doc.Version}
	}

	if doc.Path != "" {
		return nil, &UnsupportedPathError{Got: doc.Path}
	}

	sanitized := sanitizePassword(string(password))

	derivedKey, err := deriveKey(doc.Crypto.KDF, sanitized)
	if err != nil {
		return nil, err
	}

	if doc.Crypto.Cipher.Function != cipherFunction {
		return nil, &UnsupportedCipherError{Function: doc.Crypto.Cipher.Function}
	}
	iv, err := fieldFromParams(doc.Crypto.Cipher.Params, "iv", ivFieldSize)
	if err != nil {
		return nil, err
	}
	ciphertext, err := decodeHexField("crypto.cipher.message", doc.Crypto.Cipher.Message)
	if err != nil {
		return nil, err
	}

	if doc.Crypto.Checksum.Function != checksumFunction {
		return nil, &UnsupportedChecksumFnError{Function: doc.Crypto.Checksum.Function}
	}
	expectedChecksum, err := decodeFixedHexField("crypto.checksum.message", doc.Crypto.Checksum.Message, checksumFieldSize)
	if err != nil {
		return nil, err
	}

	// Password verification MUST precede any use of the decrypted
	// plaintext: compute SHA256(DK[16:32] || ciphertext) and compare in
	// constant time before touching the cipher.
	checksum := sha256.Sum256(append(append([]byte{}, derivedKey[16:32]...), ciphertext...))
	if subtle.ConstantTimeCompare(checksum[:], expectedChecksum) != 1 {
		return nil, &BadPasswordError{}
	}

	privateKey, err := decryptAES128CTR(ciphertext, derivedKey[:16], iv)
	if err != nil {
		return nil, err
	}
	if len(privateKey) != privkeyFieldSize {
		return nil, &FieldSizeError{Field: "privkey", Expected: privkeyFieldSize, Got: len(privateKey)}
	}

	derivedPubkey, err := blsutil.DerivePublicKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("erc2335: deriving public key: %w", err)
	}

	pubkey := derivedPubkey
	if doc.Pubkey != "" {
		declared, err := decodeFixedHexField("pubkey", doc.Pubkey, blsutil.PublicKeySize)
		if err != nil {
			return nil, err
		}
		if subtle.ConstantTimeCompare(derivedPubkey, declared) != 1 {
			return nil, &KeyPairMismatchError{}
		}
		pubkey = declared
	}

	return &KeystoreRecord{
		PublicKey:  pubkey,
		PrivateKey: privateKey,
		Path:       "",
		ReadOnly:   false,
	}, nil
}

// deriveKey extracts the KDF section and runs it through the KDF engine,
// rejecting anything the ERC-2335 closed KDF set doesn't recognize.
func deriveKey(kdfDoc moduleDoc, sanitizedPassword []byte) ([]byte, error) {
	switch kdfDoc.Function {
	case "scrypt", "pbkdf2":
	default:
		return nil, &UnsupportedKDFError{Function: kdfDoc.Function}
	}
	if kdfDoc.Function == "pbkdf2" {
		if prf, ok := kdfDoc.Params["prf"]; ok {
			if s, isStr := prf.(string); !isStr || strings.ToLower(strings.TrimSpace(s)) != "hmac-sha256" {
				return nil, &UnsupportedKDFError{Function: fmt.Sprintf("pbkdf2 (prf %v)", prf)}
			}
		}
	}

	salt, err := fieldFromParams(kdfDoc.Params, "salt", saltFieldSize)
	if err != nil {
		return nil, err
	}
	params := map[string]interface{}{"salt": hex.EncodeToString(salt)}
	for k, v := range kdfDoc.Params {
		if k == "salt" {
			continue
		}
		params[k] = v
	}

	service := kdf.NewUniversalKDFService()
	derived, err := service.DeriveKey(string(sanitizedPassword), &kdf.CryptoParams{
		KDF:       kdfDoc.Function,
		KDFParams: params,
	})
	if err != nil {
		if kdfErr, ok := err.(*kdf.KDFError); ok && kdfErr.Type == "compatibility" {
			return nil, &UnsupportedKDFError{Function: kdfDoc.Function}
		}
		return nil, err
	}
	if len(derived) < 32 {
		return nil, &FieldSizeError{Field: "kdf.derived_key", Expected: 32, Got: len(derived)}
	}

	return derived, nil
}

// fieldFromParams extracts and fixed-length-decodes a hex parameter
// (e.g. salt, iv) from a KDF/cipher params bag.
func fieldFromParams(params map[string]interface{}, name string, expected int) ([]byte, error) {
	raw, ok := params[name]
	if !ok {
		return nil, &MalformedJSONError{Cause: fmt.Errorf("missing %q parameter", name)}
	}
	str, ok := raw.(string)
	if !ok {
		return nil, &MalformedJSONError{Cause: fmt.Errorf("%q parameter must be a hex string", name)}
	}
	return decodeFixedHexField(name, str, expected)
}

func decryptAES128CTR(ciphertext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("erc2335: creating AES cipher: %w", err)
	}
	plaintext := make([]byte, len(ciphertext))
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

// encryptAES128CTR runs the same stream cipher in the encrypt direction;
// AES-CTR is symmetric so this is identical to decryptAES128CTR, kept
// separate for readability at call sites.
func encryptAES128CTR(plaintext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("erc2335: creating AES cipher: %w", err)
	}
	ciphertext := make([]byte, len(plaintext))
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(ciphertext, plaintext)
	return ciphertext, nil
}

// EncodeOptions controls how Encode builds a new keystore document.
type EncodeOptions struct {
	// KDF selects "scrypt" (default) or "pbkdf2". An empty value defaults
	// to scrypt, which offers better GPU resistance.
	KDF string
}

// Encode builds a new ERC-2335 keystore document wrapping secretKey,
// encrypted under password. The returned bytes are a complete JSON
// document ready to write to disk.
func Encode(secretKey, password []byte, opts EncodeOptions) ([]byte, error) {
	if len(secretKey) != privkeyFieldSize {
		return nil, &FieldSizeError{Field: "privkey", Expected: privkeyFieldSize, Got: len(secretKey)}
	}

	kdfFunction := opts.KDF
	if kdfFunction == "" {
		kdfFunction = "scrypt"
	}
	if kdfFunction != "scrypt" && kdfFunction != "pbkdf2" {
		return nil, &UnsupportedKDFError{Function: kdfFunction}
	}

	pubkey, err := blsutil.DerivePublicKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("erc2335: deriving public key: %w", err)
	}

	salt := make([]byte, saltFieldSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("erc2335: generating salt: %w", err)
	}
	iv := make([]byte, ivFieldSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("erc2335: generating iv: %w", err)
	}

	service := kdf.NewUniversalKDFService()
	kdfParams, err := service.GetDefaultParams(kdfFunction)
	if err != nil {
		return nil, fmt.Errorf("erc2335: resolving KDF defaults: %w", err)
	}
	kdfParams["salt"] = hex.EncodeToString(salt)

	sanitized := sanitizePassword(string(password))
	derivedKey, err := service.DeriveKey(string(sanitized), &kdf.CryptoParams{
		KDF:       kdfFunction,
		KDFParams: kdfParams,
	})
	if err != nil {
		return nil, fmt.Errorf("erc2335: deriving key: %w", err)
	}

	ciphertext, err := encryptAES128CTR(secretKey, derivedKey[:16], iv)
	if err != nil {
		return nil, err
	}

	checksum := sha256.Sum256(append(append([]byte{}, derivedKey[16:32]...), ciphertext...))

	doc := keystoreDocument{
		Version: keystoreVersion,
		Path:    "",
		Pubkey:  hex.EncodeToString(pubkey),
		Crypto: keystoreCryptoDoc{
			KDF: moduleDoc{
				Function: kdfFunction,
				Params:   kdfParams,
			},
			Checksum: moduleDoc{
				Function: checksumFunction,
				Params:   map[string]interface{}{},
				Message:  hex.EncodeToString(checksum[:]),
			},
			Cipher: moduleDoc{
				Function: cipherFunction,
				Params:   map[string]interface{}{"iv": hex.EncodeToString(iv)},
				Message:  hex.EncodeToString(ciphertext),
			},
		},
	}

	return json.MarshalIndent(doc, "", "  ")
}
