package ner_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/nazgo/ner"
	"github.com/fulmenhq/nazgo/normalize"
)

func TestTokenizeTracksSentenceStart(t *testing.T) {
	tokens := ner.Tokenize("Victor Hugo wrote novels. Paris is a city.")
	require.NotEmpty(t, tokens)
	first := tokens[0]
	assert.Equal(t, 0, first.SentenceStart)

	var afterPeriod *ner.Token
	for i := range tokens {
		if tokens[i].Word == "Paris" {
			afterPeriod = &tokens[i]
		}
	}
	require.NotNil(t, afterPeriod)
	assert.NotEqual(t, 0, afterPeriod.SentenceStart)
}

func TestLexicalSourceRecognizesKnownWord(t *testing.T) {
	src := &ner.LexicalSource{SourceName: "lexicon", Lexicon: map[string]string{
		"Paris": "http://example.org/Paris",
	}}
	uris, err := src.Recognize(context.Background(), ner.Token{Word: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.org/Paris"}, uris)

	uris, err = src.Recognize(context.Background(), ner.Token{Word: "Unknown"})
	require.NoError(t, err)
	assert.Empty(t, uris)
}

func TestProcessRecognizesAndSuppressesOverlap(t *testing.T) {
	lexicon := map[string]string{
		"Victor Hugo": "http://example.org/VictorHugo",
		"Hugo":        "http://example.org/Hugo",
	}
	src := &ner.LexicalSource{SourceName: "lexicon", Lexicon: lexicon}

	tokens := []ner.Token{
		{Word: "Victor Hugo", Start: 0, End: 11},
		{Word: "Hugo", Start: 7, End: 11},
		{Word: "wrote", Start: 12, End: 17},
	}

	p := &ner.Process{Sources: []ner.Source{src}}
	entities, err := p.RecognizeTokens(context.Background(), tokens)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "http://example.org/VictorHugo", entities[0].URI)
}

func TestUniqueStopsAtFirstMatch(t *testing.T) {
	src1 := &ner.LexicalSource{SourceName: "a", Lexicon: map[string]string{"Paris": "uri-a"}}
	src2 := &ner.LexicalSource{SourceName: "b", Lexicon: map[string]string{"Paris": "uri-b"}}

	p := &ner.Process{Sources: []ner.Source{src1, src2}, Unique: true}
	entities, err := p.RecognizeTokens(context.Background(), []ner.Token{{Word: "Paris", Start: 0, End: 5}})
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "uri-a", entities[0].URI)
}

func TestStopWordsFilterPreprocessor(t *testing.T) {
	stopWords := normalize.NewStopWords([]string{"the", "and"})
	pre := ner.StopWordsFilter(stopWords, false)

	kept := pre(ner.Token{Word: "Paris"})
	assert.NotNil(t, kept)

	dropped := pre(ner.Token{Word: "the"})
	assert.Nil(t, dropped)
}

func TestHashtagCleanup(t *testing.T) {
	pre := ner.HashtagCleanup()
	out := pre(ner.Token{Word: "@Barack_Obama"})
	require.NotNil(t, out)
	assert.Equal(t, "Barack Obama", out.Word)
}

func TestOccurrenceFilter(t *testing.T) {
	entities := []ner.Entity{
		{URI: "a", Token: ner.Token{Word: "x"}},
		{URI: "a", Token: ner.Token{Word: "y"}},
		{URI: "b", Token: ner.Token{Word: "z"}},
	}
	filtered := ner.OccurrenceFilter(2, 0)(entities)
	require.Len(t, filtered, 2)
	for _, e := range filtered {
		assert.Equal(t, "a", e.URI)
	}
}

func TestDisambiguationWordParts(t *testing.T) {
	entities := []ner.Entity{
		{URI: "http://example.org/VictorHugo", Token: ner.Token{Word: "Victor Hugo"}},
		{URI: "http://example.org/generic-hugo", Token: ner.Token{Word: "Hugo"}},
	}
	out := ner.DisambiguationWordParts()(entities)
	require.Len(t, out, 2)
	assert.Equal(t, "http://example.org/VictorHugo", out[1].URI)
}

func TestWriteHTMLWrapsEntities(t *testing.T) {
	text := "Victor Hugo wrote novels."
	entities := []ner.Entity{
		{URI: "http://example.org/VictorHugo", Source: "lexicon", Token: ner.Token{Word: "Victor Hugo", Start: 0, End: 11}},
	}
	var buf strings.Builder
	require.NoError(t, ner.WriteHTML(&buf, text, entities))
	assert.Contains(t, buf.String(), `<a href="http://example.org/VictorHugo"`)
	assert.Contains(t, buf.String(), "wrote novels.")
}

func TestWritePlainText(t *testing.T) {
	entities := []ner.Entity{
		{URI: "http://example.org/Paris", Source: "lexicon", Token: ner.Token{Word: "Paris", Start: 0, End: 5}},
	}
	var buf strings.Builder
	require.NoError(t, ner.WritePlainText(&buf, entities))
	assert.Equal(t, "Paris\thttp://example.org/Paris\tlexicon\n", buf.String())
}
