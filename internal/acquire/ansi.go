package acquire

import "regexp"

// ansiPattern matches ANSI escape sequences that tools such as yt-dlp embed
// in error text.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// SanitizeANSI strips terminal control sequences so error text can be
// rendered as evidence.
func SanitizeANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
