// Package srcnorm normalizes the identifier text this core sees before
// it is stored as a symbol table link's display name or a Variable's
// debug name: Unicode NFC normalization plus UTF-8 BOM stripping, so
// that lexically-equivalent names (e.g. "café" typed in NFC vs NFD)
// produce byte-for-byte identical diagnostics regardless of source
// encoding. Symbol table lookups themselves go by numeric link and
// registry ids, not by name.
//
// Grounded on internal/lexer/normalize.go in the teacher, narrowed from
// whole-source-file normalization (out of this core's scope — parsing
// and lexing happen upstream) to single-identifier normalization at the
// two points this core actually consumes names: symbol table link
// names and Variable debug names.
package srcnorm

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Identifier returns name with any leading UTF-8 BOM stripped and
// Unicode NFC normalization applied. IsNormal is checked first so
// already-normalized names (the overwhelming majority) skip the
// normalization pass.
func Identifier(name string) string {
	b := []byte(name)
	b = bytes.TrimPrefix(b, bomUTF8)
	if norm.NFC.IsNormal(b) {
		return string(b)
	}
	return string(norm.NFC.Bytes(b))
}

// Equal reports whether a and b normalize to the same identifier,
// regardless of which composition form either arrived in.
func Equal(a, b string) bool {
	return Identifier(a) == Identifier(b)
}
