// Package condense shrinks entry values as they age into colder tiers.
package condense

import (
	"strings"

	"github.com/rcliao/agent-recall/internal/model"
)

const (
	DefaultCompressSize = 200
	DefaultFactSize     = 100
	Ellipsis            = "..."
)

// Compress truncates text longer than DefaultCompressSize runes and appends
// an ellipsis. Shorter text is returned unchanged. Compress is idempotent.
func Compress(text string) string {
	return Truncate(text, DefaultCompressSize)
}

// Truncate keeps the first max runes of text followed by an ellipsis when
// text is longer than max runes.
func Truncate(text string, max int) string {
	if max < 0 {
		max = 0
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + Ellipsis
}

// FirstSentence returns the first non-empty sentence of text, trimmed and
// capped at max runes. Sentences end at '.', '!' or '?'. Text with no
// non-empty sentence falls back to the trimmed text itself.
func FirstSentence(text string, max int) string {
	segments := strings.FieldsFunc(text, isSentenceEnd)
	fact := ""
	for _, s := range segments {
		if t := strings.TrimSpace(s); t != "" {
			fact = t
			break
		}
	}
	if fact == "" {
		fact = strings.TrimSpace(text)
	}
	runes := []rune(fact)
	if len(runes) > max {
		fact = strings.TrimSpace(string(runes[:max]))
	}
	return fact
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// ExtractFact rewrites value as a short labeled fact: "{key}: {sentence}".
func ExtractFact(key, value string) string {
	return key + ": " + FirstSentence(value, DefaultFactSize)
}

// ExtractFacts returns copies of entries whose values are reduced to a
// labeled first sentence and marked compressed.
func ExtractFacts(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	for i, e := range entries {
		e.Value = ExtractFact(e.Key, e.Value)
		e.Compressed = true
		out[i] = e
	}
	return out
}
