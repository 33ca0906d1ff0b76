package erc2335

import "golang.org/x/text/unicode/norm"

// sanitizePassword applies NFKD Unicode normalization to the password,
// then strips the control-character ranges U+0000..U+001F, U+007F, and
// U+0080..U+009F, per ERC-2335. The result is fed byte-for-byte to the
// KDF; omitting this step breaks compatibility with other clients.
func sanitizePassword(password string) []byte {
	normalized := norm.NFKD.String(password)

	out := make([]rune, 0, len(normalized))
	for _, r := range normalized {
		if isStrippedControlRune(r) {
			continue
		}
		out = append(out, r)
	}

	return []byte(string(out))
}

func isStrippedControlRune(r rune) bool {
	switch {
	case r >= 0x0000 && r <= 0x001F:
		return true
	case r == 0x007F:
		return true
	case r >= 0x0080 && r <= 0x009F:
		return true
	default:
		return false
	}
}
