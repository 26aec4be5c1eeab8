package record

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fulmenhq/nazgo/logging"
)

// sparqlResults mirrors the standard SPARQL 1.1 query results JSON format
// (https://www.w3.org/TR/sparql11-results-json/). No pack library offers a
// SPARQL client, so this is a deliberate, minimal stdlib exception (see
// DESIGN.md): a tiny HTTP GET plus a JSON unmarshal is all the wire format
// requires.
type sparqlResults struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// SPARQLOptions configures a SPARQL ingestion query. Spec selects which
// bound variables become attributes, in the same single-column/tuple shape
// as CSVOptions.Spec; an empty Spec keeps every bound variable in query
// order.
type SPARQLOptions struct {
	Endpoint string
	Query    string
	Spec     ParseSpec
	Timeout  time.Duration // default 30s
}

// LoadSPARQL runs a SPARQL SELECT query against endpoint and wraps the
// bindings into a Dataset, following the same autocast rules as CSV
// ingestion. A query failure is a soft (EndpointFailure) condition per §7:
// it is logged and an empty Dataset is returned rather than propagated as a
// fatal error, so a caller chaining several sources can continue.
func LoadSPARQL(ctx context.Context, name string, opts SPARQLOptions, log *logging.Logger) (*Dataset, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	form := url.Values{}
	form.Set("query", opts.Query)
	form.Set("format", "json")
	reqURL := opts.Endpoint + "?" + form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build sparql request: %w", err)
	}
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if log != nil {
			log.Warn("sparql endpoint unreachable", zap.String("endpoint", opts.Endpoint), zap.Error(err))
		}
		return emptyDataset(name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if log != nil {
			log.Warn("sparql endpoint returned non-200", zap.String("endpoint", opts.Endpoint), zap.Int("status", resp.StatusCode))
		}
		return emptyDataset(name)
	}

	var parsed sparqlResults
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		if log != nil {
			log.Warn("sparql response not valid json", zap.String("endpoint", opts.Endpoint), zap.Error(err))
		}
		return emptyDataset(name)
	}

	records := make([]Record, 0, len(parsed.Results.Bindings))
	for _, binding := range parsed.Results.Bindings {
		values := bindingValues(binding, parsed.Head.Vars, opts.Spec)
		records = append(records, Record{Attributes: values})
	}
	arity := 0
	if len(records) > 0 {
		arity = len(records[0].Attributes)
	}
	return NewDataset(name, arity, records)
}

func bindingValues(binding map[string]struct{ Value string }, vars []string, spec ParseSpec) []Value {
	cell := func(i int) string {
		if i < 0 || i >= len(vars) {
			return ""
		}
		return binding[vars[i]].Value
	}
	if len(spec) == 0 {
		out := make([]Value, len(vars))
		for i, v := range vars {
			out[i] = autocast(binding[v].Value)
		}
		return out
	}
	out := make([]Value, len(spec))
	for i, cs := range spec {
		if len(cs.Cols) == 1 {
			out[i] = autocast(cell(cs.Cols[0]))
			continue
		}
		tuple := make([]Value, len(cs.Cols))
		hasEmpty := false
		for j, col := range cs.Cols {
			v := cell(col)
			if strings.TrimSpace(v) == "" {
				hasEmpty = true
			}
			tuple[j] = autocast(v)
		}
		if hasEmpty {
			out[i] = nil
		} else {
			out[i] = tuple
		}
	}
	return out
}

func emptyDataset(name string) (*Dataset, error) {
	return &Dataset{Name: name, Arity: 0, Records: nil}, nil
}
