package normalize_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/nazgo/normalize"
)

func TestLowerAccentFold(t *testing.T) {
	v, err := normalize.LowerAccentFold("Café")
	require.NoError(t, err)
	assert.Equal(t, "cafe", v)
}

func TestPunctuationStrip(t *testing.T) {
	v, err := normalize.PunctuationStrip("bonjour!")
	require.NoError(t, err)
	assert.Equal(t, "bonjour", v)
}

func TestTokenize(t *testing.T) {
	toks := normalize.Tokenize("Hello, world!")
	assert.Contains(t, toks, "Hello")
	assert.Contains(t, toks, "world")
}

func TestSimplifyWithLemmasAndStopwords(t *testing.T) {
	lemmas := normalize.Lemmas{"running": "run|running"}
	stop := normalize.NewStopWords([]string{"the"})
	out := normalize.Simplify("The Running, fast!", normalize.SimplifyOptions{
		Lemmas:          lemmas,
		RemoveStopWords: true,
		StopWords:       stop,
	})
	assert.Equal(t, "running fast", out)
}

func TestLemmaAlternateTieBreak(t *testing.T) {
	lemmas := normalize.Lemmas{"running": "run|running"}
	// "running" is itself one of the alternates, so it's returned unchanged.
	assert.Equal(t, "running", lemmas.LemmatizeWord("running"))
	// a word with no entry is unaffected.
	assert.Equal(t, "walking", lemmas.LemmatizeWord("walking"))
}

func TestRoundToString(t *testing.T) {
	v, err := normalize.RoundToString(3.14159, 2)
	require.NoError(t, err)
	assert.Equal(t, "3.14", v)
}

func TestRoundToStringHalfToEven(t *testing.T) {
	v, err := normalize.RoundToString(2.5, 0)
	require.NoError(t, err)
	assert.Equal(t, "2", v, "ties round to the nearest even digit, not away from zero")

	v, err = normalize.RoundToString(3.5, 0)
	require.NoError(t, err)
	assert.Equal(t, "4", v)
}

func TestRegexFormat(t *testing.T) {
	re := regexp.MustCompile(`\[(?P<firstname>\w+) (?P<lastname>\w+)\]`)
	out, ok := normalize.RegexFormat("[Victor Hugo]", re, "${lastname}, ${firstname}")
	assert.True(t, ok)
	assert.Equal(t, "Hugo, Victor", out)
}
