// Package ner implements the named-entity recognition process: a tokenized
// text walk with overlap suppression, a pluggable source/preprocessor/filter
// pipeline, and plain-text/HTML result writers.
package ner

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/words"
)

// Token is one word-boundary segment of a text, with its byte offsets and
// the offset its enclosing sentence started at.
type Token struct {
	Word          string
	Start, End    int
	SentenceStart int
}

var sentenceEnders = ".!?"

// Tokenize walks text's Unicode word boundaries (via uax29), keeping only
// non-blank segments, and tags each Token with its byte offsets and the
// start offset of the sentence it belongs to — a new sentence begins right
// after any token ending in '.', '!', or '?'.
func Tokenize(text string) []Token {
	var out []Token
	seg := words.NewSegmenter([]byte(text))
	cursor := 0
	sentenceStart := 0
	atSentenceBoundary := true
	for seg.Next() {
		raw := string(seg.Value())
		segStart := cursor
		cursor += len(raw)
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		leading := len(raw) - len(strings.TrimLeft(raw, " \t\n\r"))
		start := segStart + leading
		if atSentenceBoundary {
			sentenceStart = start
		}
		out = append(out, Token{Word: trimmed, Start: start, End: start + len(trimmed), SentenceStart: sentenceStart})
		atSentenceBoundary = strings.ContainsAny(trimmed[len(trimmed)-1:], sentenceEnders)
	}
	return out
}
