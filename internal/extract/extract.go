// Package extract classifies the pieces of a message body the analytics
// count: words, links and emoji.
package extract

import (
	"strings"

	"mvdan.cc/xurls/v2"
)

// relaxed also matches bare domains ("example.com/x"), which is how
// links are usually typed into a chat.
var relaxed = xurls.Relaxed()

// URLs returns every link found in body, in order of appearance.
func URLs(body string) []string {
	return relaxed.FindAllString(body, -1)
}

// Words counts whitespace-separated tokens.
func Words(body string) int {
	return len(strings.Fields(body))
}

// Tokens lowercases body and splits it on whitespace.
func Tokens(body string) []string {
	return strings.Fields(strings.ToLower(body))
}

// Emoji returns every emoji code point in body, one entry per occurrence.
func Emoji(body string) []string {
	var out []string
	for _, r := range body {
		if IsEmoji(r) {
			out = append(out, string(r))
		}
	}
	return out
}
