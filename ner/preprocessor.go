package ner

import (
	"strings"

	"github.com/fulmenhq/nazgo/normalize"
)

// Preprocessor transforms or rejects a token before it reaches any Source; a
// nil return drops the token from recognition entirely.
type Preprocessor func(Token) *Token

// WordSizeFilter drops tokens whose word length falls outside [minSize,
// maxSize]; a zero bound is not enforced.
func WordSizeFilter(minSize, maxSize int) Preprocessor {
	return func(t Token) *Token {
		if minSize > 0 && len(t.Word) < minSize {
			return nil
		}
		if maxSize > 0 && len(t.Word) > maxSize {
			return nil
		}
		return &t
	}
}

// LowerCaseFilter drops any token that is entirely lower-case, on the
// assumption that named entities are capitalized.
func LowerCaseFilter() Preprocessor {
	return func(t Token) *Token {
		if t.Word == strings.ToLower(t.Word) && t.Word != strings.ToUpper(t.Word) {
			return nil
		}
		return &t
	}
}

// LowerFirstWord lower-cases a token's first byte when it opens its sentence
// and its first word is a stop word — sentence-initial capitalization shouldn't by
// itself make a stop word look like an entity.
func LowerFirstWord(stopWords normalize.StopWords) Preprocessor {
	return func(t Token) *Token {
		if t.Start != t.SentenceStart {
			return &t
		}
		first := strings.Fields(t.Word)
		if len(first) == 0 {
			return &t
		}
		if _, stop := stopWords[strings.ToLower(first[0])]; !stop {
			return &t
		}
		out := t
		out.Word = strings.ToLower(t.Word[:1]) + t.Word[1:]
		return &out
	}
}

// StopWordsFilter drops a token whose word is a stop word; when splitWords
// is set, a multi-word token is kept if any of its constituent words is not
// a stop word.
func StopWordsFilter(stopWords normalize.StopWords, splitWords bool) Preprocessor {
	return func(t Token) *Token {
		lower := strings.ToLower(t.Word)
		if splitWords {
			for _, w := range strings.Fields(lower) {
				if _, stop := stopWords[w]; !stop {
					return &t
				}
			}
			return nil
		}
		if _, stop := stopWords[lower]; stop {
			return nil
		}
		return &t
	}
}

// HashtagCleanup strips a leading '@' or '#' and replaces underscores with
// spaces, turning "@Barack_Obama" into "Barack Obama".
func HashtagCleanup() Preprocessor {
	return func(t Token) *Token {
		if !strings.HasPrefix(t.Word, "@") && !strings.HasPrefix(t.Word, "#") {
			return &t
		}
		out := t
		out.Word = strings.ReplaceAll(t.Word[1:], "_", " ")
		return &out
	}
}
