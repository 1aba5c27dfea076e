package detection

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

var (
	digitRunPattern = regexp.MustCompile(`\d+`)
	nonWordPattern  = regexp.MustCompile(`[^a-zA-Z0-9_\s]+`)
)

// Fingerprint normalizes text into an order- and magnitude-invariant
// token signature: lowercase, every maximal digit run collapsed to NUM,
// punctuation stripped, tokens deduplicated and sorted. Two messages
// that differ only in word order or in numeric values fingerprint
// identically, which is what makes hash lookup and fuzzy comparison
// work.
func Fingerprint(text string) string {
	t := strings.ToLower(text)
	t = digitRunPattern.ReplaceAllString(t, "NUM")
	t = nonWordPattern.ReplaceAllString(t, "")

	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(t) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// FingerprintHash returns the stable 128-bit digest of a fingerprint,
// hex encoded. Pattern tables are keyed by this value.
func FingerprintHash(fingerprint string) string {
	sum := md5.Sum([]byte(fingerprint))
	return hex.EncodeToString(sum[:])
}

// tokenSet splits a fingerprint into its token set
func tokenSet(fingerprint string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(fingerprint) {
		set[tok] = struct{}{}
	}
	return set
}
