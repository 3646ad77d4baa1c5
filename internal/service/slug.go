package service

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	slugSuffixLen  = 4
	slugMaxBaseLen = 48
	slugAlphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Slugify turns an event name into a lowercase, hyphen separated slug.
// Accents are stripped ("Festa de Formatura São João" -> "festa-de-formatura-sao-joao").
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}

	slug := b.String()
	if len(slug) > slugMaxBaseLen {
		slug = strings.TrimRight(slug[:slugMaxBaseLen], "-")
	}
	if slug == "" {
		slug = "event"
	}
	return slug
}

// slugSuffix returns a short random base36 string.
func slugSuffix() (string, error) {
	max := big.NewInt(int64(len(slugAlphabet)))
	out := make([]byte, slugSuffixLen)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = slugAlphabet[n.Int64()]
	}
	return string(out), nil
}
