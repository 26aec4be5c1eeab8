// Package normalize implements the attribute-level normalizers and the
// NormalizerPipeline that applies them across a Dataset's columns: accent
// folding (delegated to foundry/similarity), punctuation stripping, lemma
// substitution, stop-word removal, rounding, and regex reformatting.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/clipperhouse/uax29/v2/words"

	"github.com/fulmenhq/nazgo/foundry/similarity"
	"github.com/fulmenhq/nazgo/record"
)

// ErrNonMappable is wrapped by RoundToString when a value cannot be read as
// a number. LowerAccentFold never returns it: a code point with no
// accent-fold mapping is kept as is, and there is no substitute-rune option.
var ErrNonMappable = errors.New("normalize: non-mappable code point")

// Func normalizes one attribute value; nil in, nil out.
type Func func(record.Value) (record.Value, error)

// LowerAccentFold lower-cases and strips diacritics from string values,
// passing non-string values through unchanged.
func LowerAccentFold(v record.Value) (record.Value, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	return similarity.StripAccents(similarity.Casefold(s, "")), nil
}

// punctuation is the fixed ASCII punctuation set stripped by PunctuationStrip.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// PunctuationStrip removes every rune in the fixed ASCII punctuation set.
func PunctuationStrip(v record.Value) (record.Value, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s), nil
}

// Tokenize splits sentence on Unicode word boundaries using uax29's
// segmenter, the tokenizer contract §1 treats as an external collaborator.
func Tokenize(sentence string) []string {
	var out []string
	seg := words.NewSegmenter([]byte(sentence))
	for seg.Next() {
		tok := strings.TrimSpace(string(seg.Value()))
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Lemmas maps a lower-cased word to its lemma. A pipe-separated value is a
// set of alternate spellings; if the original word (lower-cased) is one of
// the alternates, it is returned unchanged, otherwise the first alternate is
// used — matching the original implementation's tie-break.
type Lemmas map[string]string

// LemmatizeWord returns the lemma for word, handling pipe-separated
// alternates: if the original word (lower-cased) is itself one of the
// alternates, it is returned unchanged; otherwise the first alternate wins.
func (l Lemmas) LemmatizeWord(word string) string {
	lower := strings.ToLower(word)
	lemma, ok := l[lower]
	if !ok {
		return word
	}
	if strings.Contains(lemma, "|") {
		alts := strings.Split(lemma, "|")
		for _, alt := range alts {
			if alt == lower {
				return lower
			}
		}
		return alts[0]
	}
	return lemma
}

// StopWords is a set of words removed by SimplifyOptions.RemoveStopWords.
type StopWords map[string]struct{}

// NewStopWords builds a StopWords set from a slice of words.
func NewStopWords(words []string) StopWords {
	out := make(StopWords, len(words))
	for _, w := range words {
		out[strings.ToLower(w)] = struct{}{}
	}
	return out
}

// SimplifyOptions configures the Simplify pipeline.
type SimplifyOptions struct {
	Lemmas          Lemmas
	RemoveStopWords bool
	StopWords       StopWords
}

// Simplify tokenizes sentence, optionally substitutes each token with its
// lemma, lower-cases, strips punctuation, and optionally removes stop words,
// returning the rejoined string.
func Simplify(sentence string, opts SimplifyOptions) string {
	tokens := Tokenize(sentence)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		word := tok
		if opts.Lemmas != nil {
			word = opts.Lemmas.LemmatizeWord(word)
		}
		word = strings.ToLower(word)
		word = strings.Map(func(r rune) rune {
			if strings.ContainsRune(punctuation, r) {
				return -1
			}
			return r
		}, word)
		if word == "" {
			continue
		}
		if opts.RemoveStopWords {
			if _, stop := opts.StopWords[word]; stop {
				continue
			}
		}
		out = append(out, word)
	}
	return strings.Join(out, " ")
}

// RoundToString rounds number (coercing strings/ints to float64) to ndigits
// decimal places and returns it as a fixed-precision string.
func RoundToString(v record.Value, ndigits int) (record.Value, error) {
	f, err := toFloat(v)
	if err != nil {
		return nil, fmt.Errorf("%w: round: %v", ErrNonMappable, err)
	}
	mult := math.Pow(10, float64(ndigits))
	rounded := math.RoundToEven(f*mult) / mult
	return strconv.FormatFloat(rounded, 'f', ndigits, 64), nil
}

func toFloat(v record.Value) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, fmt.Errorf("cannot coerce %T to float64", v)
	}
}

// RegexFormat applies a named-capture regex to s and substitutes the
// template using the captured group names (Go's $name syntax).
func RegexFormat(s string, re *regexp.Regexp, template string) (string, bool) {
	match := re.FindStringSubmatchIndex(s)
	if match == nil {
		return "", false
	}
	return string(re.ExpandString(nil, template, s, match)), true
}
