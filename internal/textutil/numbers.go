package textutil

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCount renders n with English thousands separators, e.g. 3,658.
func FormatCount[T ~int | ~int64](n T) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// Plural returns singular when n is 1 and plural otherwise.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
