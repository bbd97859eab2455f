// Package codepage reads strictly validated UTF-8 text and writes it in the
// IBM code page 850 encoding. Runes outside the CP850 repertoire are dropped
// before they reach the encoder, so encoding never fails on content.
package codepage

import (
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// CP850 is the output code page.
var CP850 = charmap.CodePage850

// Representable reports whether r has a single-byte CP850 encoding.
func Representable(r rune) bool {
	_, ok := CP850.EncodeRune(r)
	return ok
}

// unrepresentable selects the runes the encoder would reject.
var unrepresentable = runes.Predicate(func(r rune) bool {
	return !Representable(r)
})

// newLossyEncoder returns a transformer that removes unrepresentable runes and
// encodes the rest as CP850.
func newLossyEncoder() transform.Transformer {
	return transform.Chain(runes.Remove(unrepresentable), CP850.NewEncoder())
}

// Encode converts s to CP850 bytes, dropping every rune the code page cannot
// represent. It returns the encoded bytes and the number of runes dropped.
func Encode(s string) ([]byte, int, error) {
	dropped := CountUnrepresentable(s)
	out, _, err := transform.Bytes(newLossyEncoder(), []byte(s))
	if err != nil {
		return nil, 0, err
	}
	return out, dropped, nil
}

// CountUnrepresentable returns how many runes of s have no CP850 encoding.
func CountUnrepresentable(s string) int {
	n := 0
	for _, r := range s {
		if !Representable(r) {
			n++
		}
	}
	return n
}

// ReadUTF8 reads all of r and fails with encoding.ErrInvalidUTF8 if the input
// contains an invalid UTF-8 sequence. No replacement characters are inserted.
func ReadUTF8(r io.Reader) (string, error) {
	data, err := io.ReadAll(transform.NewReader(r, encoding.UTF8Validator))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
