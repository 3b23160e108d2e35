package blog

import (
	"strings"
	"unicode"
)

const wordsPerMinute = 200

// Slugify lowercases the title and collapses every non-alphanumeric run
// into a single hyphen, trimming leading and trailing hyphens.
func Slugify(title string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// ReadTimeMinutes estimates reading time at 200 words per minute, rounding
// up, with a minimum of one minute.
func ReadTimeMinutes(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 1
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
