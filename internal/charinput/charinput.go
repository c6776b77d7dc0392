// Package charinput validates the character the user asked for.
package charinput

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidCharacter is returned when no usable character remains after
// normalization.
var ErrInvalidCharacter = errors.New("invalid character")

// Normalize reduces s to exactly one grapheme cluster in NFC form. Leading
// and trailing whitespace is ignored; anything after the first cluster is
// dropped.
func Normalize(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", ErrInvalidCharacter
	}
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return "", ErrInvalidCharacter
	}

	g := uniseg.NewGraphemes(s)
	if !g.Next() {
		return "", ErrInvalidCharacter
	}
	first := g.Str()
	for _, r := range first {
		if unicode.IsControl(r) {
			return "", ErrInvalidCharacter
		}
	}
	return first, nil
}

// Truncated reports whether Normalize would drop part of s.
func Truncated(s string) bool {
	first, err := Normalize(s)
	if err != nil {
		return false
	}
	return strings.TrimSpace(norm.NFC.String(s)) != first
}
