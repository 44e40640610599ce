// Package textnorm canonicalizes inbound WhatsApp text before it is matched
// against menu codes and keywords.
package textnorm

import (
	"strings"
	"unicode"
)

const tatweel = 'ـ'

var digitReplacer = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
)

// Normalize maps Arabic-Indic and Persian digits to ASCII, removes tatweel and
// shadda-style diacritics, collapses runs of whitespace and lower-cases Latin
// letters. "منبّه" and "منبه" normalize to the same string.
func Normalize(s string) string {
	s = digitReplacer.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case r == tatweel || unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsSpace(r):
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Command splits normalized text into a leading keyword and an optional
// numeric argument, e.g. "حذف 3" -> ("حذف", "3").
func Command(s string) (keyword, arg string) {
	keyword, arg, _ = strings.Cut(s, " ")
	return keyword, strings.TrimSpace(arg)
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
