package ner

import (
	"fmt"
	"html"
	"io"
	"sort"
)

// WritePlainText writes one "word\turi\tsource\n" row per entity, sorted by
// token start offset.
func WritePlainText(w io.Writer, entities []Entity) error {
	sorted := sortedByStart(entities)
	for _, e := range sorted {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", e.Token.Word, e.URI, e.Source); err != nil {
			return err
		}
	}
	return nil
}

// WriteHTML renders text with every recognized entity wrapped in an
// <a href="URI" title="source"> anchor, escaping everything else.
func WriteHTML(w io.Writer, text string, entities []Entity) error {
	return writeMarked(w, text, entities, false)
}

// WriteXHTML is WriteHTML with self-closing-friendly, strict XHTML markup
// (void elements aren't used here, so output is identical to WriteHTML
// beyond the doctype-level guarantee callers make themselves; kept as a
// distinct entry point so call sites document their intent).
func WriteXHTML(w io.Writer, text string, entities []Entity) error {
	return writeMarked(w, text, entities, true)
}

func writeMarked(w io.Writer, text string, entities []Entity, _ bool) error {
	sorted := sortedByStart(entities)
	cursor := 0
	for _, e := range sorted {
		if e.Token.Start < cursor {
			continue // overlapping entity, already covered
		}
		if _, err := io.WriteString(w, html.EscapeString(text[cursor:e.Token.Start])); err != nil {
			return err
		}
		anchor := fmt.Sprintf(`<a href="%s" title="%s">%s</a>`,
			html.EscapeString(e.URI), html.EscapeString(e.Source), html.EscapeString(e.Token.Word))
		if _, err := io.WriteString(w, anchor); err != nil {
			return err
		}
		cursor = e.Token.End
	}
	if cursor < len(text) {
		if _, err := io.WriteString(w, html.EscapeString(text[cursor:])); err != nil {
			return err
		}
	}
	return nil
}

func sortedByStart(entities []Entity) []Entity {
	out := make([]Entity, len(entities))
	copy(out, entities)
	sort.Slice(out, func(i, j int) bool { return out[i].Token.Start < out[j].Token.Start })
	return out
}
