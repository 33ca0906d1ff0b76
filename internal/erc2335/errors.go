package erc2335

import "fmt"

// MalformedHexError is returned when a hex-encoded field cannot be decoded:
// non-hex characters or an odd number of digits.
type MalformedHexError struct {
	Field string
	Value string
}

func (e *MalformedHexError) Error() string {
	return fmt.Sprintf("erc2335: malformed hex in field %q: %q", e.Field, e.Value)
}

// FieldSizeError is returned when a decoded field does not match its
// contractual byte length (salt 32, IV 16, checksum 32, ...).
type FieldSizeError struct {
	Field    string
	Expected int
	Got      int
}

func (e *FieldSizeError) Error() string {
	return fmt.Sprintf("erc2335: field %q expected %d bytes, got %d", e.Field, e.Expected, e.Got)
}

// MalformedJSONError wraps a JSON unmarshal failure on the keystore document.
type MalformedJSONError struct {
	Cause error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("erc2335: malformed keystore JSON: %v", e.Cause)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Cause
}

// UnsupportedVersionError is returned when the keystore's top-level
// "version" field is anything other than 4.
type UnsupportedVersionError struct {
	Got int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("erc2335: unsupported keystore version %d (only version 4 is supported)", e.Got)
}

// UnsupportedPathError is returned when the keystore's "path" field is
// non-empty; this revision accepts only the empty derivation path.
type UnsupportedPathError struct {
	Got string
}

func (e *UnsupportedPathError) Error() string {
	return fmt.Sprintf("erc2335: unsupported derivation path %q (only the empty path is supported)", e.Got)
}

// UnsupportedKDFError is returned for an unrecognized crypto.kdf.function,
// or a pbkdf2 prf other than hmac-sha256.
type UnsupportedKDFError struct {
	Function string
}

func (e *UnsupportedKDFError) Error() string {
	return fmt.Sprintf("erc2335: unsupported KDF function %q", e.Function)
}

// UnsupportedCipherError is returned for a crypto.cipher.function other
// than aes-128-ctr.
type UnsupportedCipherError struct {
	Function string
}

func (e *UnsupportedCipherError) Error() string {
	return fmt.Sprintf("erc2335: unsupported cipher function %q", e.Function)
}

// UnsupportedChecksumFnError is returned for a crypto.checksum.function
// other than sha256.
type UnsupportedChecksumFnError struct {
	Function string
}

func (e *UnsupportedChecksumFnError) Error() string {
	return fmt.Sprintf("erc2335: unsupported checksum function %q", e.Function)
}

// BadPasswordError is returned when the checksum comparison fails. It
// carries no details about which bytes diverged, since that would leak
// timing/content information about the key material.
type BadPasswordError struct{}

func (e *BadPasswordError) Error() string {
	return "erc2335: incorrect password or corrupted keystore"
}

// KeyPairMismatchError is returned when the keystore's declared pubkey
// does not match the pubkey derived from the decrypted secret key.
type KeyPairMismatchError struct{}

func (e *KeyPairMismatchError) Error() string {
	return "erc2335: derived public key does not match keystore pubkey"
}
