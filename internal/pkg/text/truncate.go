package text

import "unicode/utf8"

// TruncationMarker prefixes text that lost its head to TruncateTail.
const TruncationMarker = "...(truncated)...\n"

// Truncate keeps the first max runes and appends an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

// TruncateTail keeps the most recent runes of s so that the result, marker
// included, is at most budget runes long. Text within budget is returned as is.
func TruncateTail(s string, budget int) string {
	if budget <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= budget {
		return s
	}
	markerLen := utf8.RuneCountInString(TruncationMarker)
	if budget <= markerLen {
		return string([]rune(TruncationMarker)[:budget])
	}
	runes := []rune(s)
	keep := budget - markerLen
	return TruncationMarker + string(runes[len(runes)-keep:])
}
