package ner

import (
	"context"

	"github.com/fulmenhq/nazgo/telemetry"
	"github.com/fulmenhq/nazgo/telemetry/metrics"
)

// Process walks a text's tokens, asks every source in turn to recognize each
// surviving token, and runs the result through the filter chain.
type Process struct {
	Sources       []Source
	Preprocessors []Preprocessor
	Filters       []Filter
	Unique        bool // stop at the first source (and first URI) that recognizes a token
}

// ProcessText tokenizes text and recognizes named entities in it.
func (p *Process) ProcessText(ctx context.Context, text string) ([]Entity, error) {
	return p.RecognizeTokens(ctx, Tokenize(text))
}

// RecognizeTokens walks tokens in order, skipping any token that overlaps a
// previously recognized one (last_end), applying every preprocessor, and
// querying every source until one recognizes the token (or, with Unique
// false, querying all of them).
func (p *Process) RecognizeTokens(ctx context.Context, tokens []Token) ([]Entity, error) {
	var entities []Entity
	lastEnd := 0

	for _, token := range tokens {
		if token.Start < lastEnd {
			continue
		}

		survived := &token
		for _, pre := range p.Preprocessors {
			survived = pre(*survived)
			if survived == nil {
				break
			}
		}
		if survived == nil {
			continue
		}

		recognized := false
	sources:
		for _, source := range p.Sources {
			uris, err := source.Recognize(ctx, *survived)
			if err != nil {
				return nil, err
			}
			for _, uri := range uris {
				entities = append(entities, Entity{URI: uri, Source: source.Name(), Token: *survived})
				recognized = true
				if p.Unique {
					break sources
				}
			}
		}
		if recognized {
			lastEnd = survived.End
		}
	}

	telemetry.EmitCounter(metrics.NERTokensProcessedTotal, float64(len(tokens)), nil)
	telemetry.EmitCounter(metrics.NERRecognizedTotal, float64(len(entities)), nil)

	before := len(entities)
	for _, filter := range p.Filters {
		entities = filter(entities)
	}
	telemetry.EmitCounter(metrics.NERFilteredTotal, float64(before-len(entities)), nil)
	return entities, nil
}
