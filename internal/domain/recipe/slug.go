package recipe

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FileExtension is appended to a recipe key to form its record filename
const FileExtension = ".txt"

const fallbackSlug = "recipe"

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a filesystem-safe key from a recipe name: accents are
// stripped from Latin letters, letters of any script are lowercased and
// every other run of characters becomes a single underscore.
func Slugify(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(fold(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}

// fold applies compatibility normalisation, dropping combining marks only
// where the base letter is Latin. Marks in other scripts distinguish words
// (ホ, ボ and ポ) and are kept.
func fold(name string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(name) {
		decomposed := norm.NFKD.String(string(r))
		base, _ := utf8.DecodeRuneInString(decomposed)
		if unicode.Is(unicode.Latin, base) {
			if folded, _, err := transform.String(stripMarks, decomposed); err == nil {
				b.WriteString(folded)
				continue
			}
		}
		b.WriteString(norm.NFKC.String(string(r)))
	}
	return b.String()
}

// KeyFromFilename strips the record extension from a filename
func KeyFromFilename(filename string) string {
	return strings.TrimSuffix(filename, FileExtension)
}
