package erc2335

import "encoding/hex"

// decodeHexField case-insensitively decodes a hex string, failing with
// MalformedHexError on non-hex input or an odd digit count.
func decodeHexField(field, value string) ([]byte, error) {
	decoded, err := hex.DecodeString(value)
	if err != nil {
		return nil, &MalformedHexError{Field: field, Value: value}
	}
	return decoded, nil
}

// decodeFixedHexField decodes a hex string and enforces it decodes to
// exactly expected bytes (salt 32, IV 16, checksum 32, pubkey 48, ...).
func decodeFixedHexField(field, value string, expected int) ([]byte, error) {
	decoded, err := decodeHexField(field, value)
	if err != nil {
		return nil, err
	}
	if len(decoded) != expected {
		return nil, &FieldSizeError{Field: field, Expected: expected, Got: len(decoded)}
	}
	return decoded, nil
}
