package ner

import (
	"context"
	"strings"
)

// Entity is one recognized named entity: its resolved URI, the name of the
// source that found it, and the token it was found at.
type Entity struct {
	URI    string
	Source string
	Token  Token
}

// Filter post-processes the full list of recognized entities for one text.
type Filter func(entities []Entity) []Entity

// OccurrenceFilter keeps only entities whose URI occurs between minOcc and
// maxOcc times in the result set (a zero bound is not enforced) — a way to
// drop both one-off noise and implausibly ubiquitous matches.
func OccurrenceFilter(minOcc, maxOcc int) Filter {
	return func(entities []Entity) []Entity {
		counts := make(map[string]int)
		for _, e := range entities {
			counts[e.URI]++
		}
		var out []Entity
		for _, e := range entities {
			c := counts[e.URI]
			if minOcc > 0 && c < minOcc {
				continue
			}
			if maxOcc > 0 && c > maxOcc {
				continue
			}
			out = append(out, e)
		}
		return out
	}
}

// RDFTypeQuerier looks up the RDF types of a URI, the collaborator
// RDFTypeFilter needs to decide whether a URI's type is acceptable.
type RDFTypeQuerier interface {
	TypesOf(ctx context.Context, uri string) ([]string, error)
}

// RDFTypeFilter drops entities whose URI's RDF types don't intersect
// acceptedTypes, caching the accept/reject decision per URI so each is
// queried at most once.
func RDFTypeFilter(ctx context.Context, querier RDFTypeQuerier, acceptedTypes []string) Filter {
	accepted := make(map[string]struct{}, len(acceptedTypes))
	for _, t := range acceptedTypes {
		accepted[t] = struct{}{}
	}
	seen := make(map[string]bool)

	return func(entities []Entity) []Entity {
		var out []Entity
		for _, e := range entities {
			ok, known := seen[e.URI]
			if !known {
				types, err := querier.TypesOf(ctx, e.URI)
				ok = false
				if err == nil {
					for _, t := range types {
						if _, match := accepted[t]; match {
							ok = true
							break
						}
					}
				}
				seen[e.URI] = ok
			}
			if ok {
				out = append(out, e)
			}
		}
		return out
	}
}

// DisambiguationWordParts resolves a short, ambiguous entity (e.g. "Hugo")
// to the URI of a longer entity sharing one of its words (e.g. "Victor
// Hugo") found elsewhere in the same text.
func DisambiguationWordParts() Filter {
	return func(entities []Entity) []Entity {
		parts := make(map[string]string)
		for _, e := range entities {
			if strings.Contains(e.Token.Word, " ") {
				for _, part := range strings.Split(e.Token.Word, " ") {
					parts[strings.ToLower(part)] = e.URI
				}
			}
		}
		out := make([]Entity, len(entities))
		for i, e := range entities {
			if uri, ok := parts[strings.ToLower(e.Token.Word)]; ok {
				e.URI = uri
			}
			out[i] = e
		}
		return out
	}
}

// ReplacementFilter applies an explicit URI->URI rewrite table, the
// mechanism for hand-correcting known-bad resolutions without touching a
// source's data.
func ReplacementFilter(replacements map[string]string) Filter {
	return func(entities []Entity) []Entity {
		out := make([]Entity, len(entities))
		for i, e := range entities {
			if repl, ok := replacements[e.URI]; ok {
				e.URI = repl
			}
			out[i] = e
		}
		return out
	}
}
