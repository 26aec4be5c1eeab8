package ner

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/fulmenhq/nazgo/record"
	"github.com/fulmenhq/nazgo/telemetry"
	"github.com/fulmenhq/nazgo/telemetry/metrics"
)

// Source resolves a word to zero or more entity URIs; every concrete source
// (lexicon, SPARQL endpoint, RQL-over-URL, RQL-over-session) unifies behind
// this one interface so a Process can mix sources freely. Preprocessors are
// applied by Process before a token reaches any source.
type Source interface {
	Name() string
	Recognize(ctx context.Context, token Token) ([]string, error)
}

// cachingSource wraps a Source with a per-word recognized-URI cache, the
// behavior every concrete source in the original toolkit got via its
// use_cache flag.
type cachingSource struct {
	inner Source
	cache map[string][]string
}

// WithCache wraps src with a per-word cache, so repeated words in a text
// only query the underlying source once.
func WithCache(src Source) Source {
	return &cachingSource{inner: src, cache: make(map[string][]string)}
}

func (c *cachingSource) Name() string { return c.inner.Name() }

func (c *cachingSource) Recognize(ctx context.Context, token Token) ([]string, error) {
	if uris, ok := c.cache[token.Word]; ok {
		return uris, nil
	}
	uris, err := c.inner.Recognize(ctx, token)
	if err != nil {
		return nil, err
	}
	c.cache[token.Word] = uris
	return uris, nil
}

// LexicalSource resolves words against a precomputed word->URI dictionary.
type LexicalSource struct {
	SourceName string
	Lexicon    map[string]string
}

func (s *LexicalSource) Name() string { return s.SourceName }

func (s *LexicalSource) Recognize(_ context.Context, token Token) ([]string, error) {
	uri, ok := s.Lexicon[token.Word]
	if !ok || uri == "" {
		return nil, nil
	}
	return []string{uri}, nil
}

// SPARQLSource resolves words by substituting them into a %(word)s-style
// SPARQL query template (Go's text/template-free %s-substitution, matching
// the original's query % {'word': word}) run against a remote endpoint.
type SPARQLSource struct {
	SourceName   string
	Endpoint     string
	QueryPattern string // contains exactly one %s, substituted with the word as is (no escaping)
	HTTPGet      func(ctx context.Context, endpoint, query string) ([]string, error)
}

func (s *SPARQLSource) Name() string { return s.SourceName }

func (s *SPARQLSource) Recognize(ctx context.Context, token Token) ([]string, error) {
	start := time.Now()
	defer func() {
		telemetry.EmitHistogram(metrics.NERSourceQueryMs, time.Since(start), map[string]string{metrics.TagSource: s.SourceName})
	}()
	query := strings.Replace(s.QueryPattern, "%s", token.Word, 1)
	return s.HTTPGet(ctx, s.Endpoint, query)
}

// RQLURLSource resolves words via an RQL query embedded in a URL query
// string and sent to an HTTP endpoint, mirroring the original's "URL RQL"
// source that has no session object to talk to directly.
type RQLURLSource struct {
	SourceName   string
	Endpoint     string
	QueryPattern string
	HTTPGet      func(ctx context.Context, fullURL string) ([]string, error)
}

func (s *RQLURLSource) Name() string { return s.SourceName }

func (s *RQLURLSource) Recognize(ctx context.Context, token Token) ([]string, error) {
	start := time.Now()
	defer func() {
		telemetry.EmitHistogram(metrics.NERSourceQueryMs, time.Since(start), map[string]string{metrics.TagSource: s.SourceName})
	}()
	query := strings.Replace(s.QueryPattern, "%s", url.QueryEscape(token.Word), 1)
	full := s.Endpoint + "?rql=" + query
	return s.HTTPGet(ctx, full)
}

// RQLSessionQuerier runs an RQL query with a bound "word" parameter against
// an already-open local session, analogous to the original's direct
// session.execute call.
type RQLSessionQuerier interface {
	Execute(ctx context.Context, rql string, params map[string]record.Value) ([][]record.Value, error)
}

// RQLSessionSource resolves words by executing an RQL query bound to a live
// session (no network round trip, unlike RQLURLSource).
type RQLSessionSource struct {
	SourceName string
	Query      string
	Session    RQLSessionQuerier
}

func (s *RQLSessionSource) Name() string { return s.SourceName }

func (s *RQLSessionSource) Recognize(ctx context.Context, token Token) ([]string, error) {
	rows, err := s.Session.Execute(ctx, s.Query, map[string]record.Value{"word": token.Word})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if s, ok := row[0].(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}
