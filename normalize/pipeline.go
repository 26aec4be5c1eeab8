package normalize

import (
	"fmt"
	"time"

	"github.com/fulmenhq/nazgo/record"
	"github.com/fulmenhq/nazgo/telemetry"
	"github.com/fulmenhq/nazgo/telemetry/metrics"
)

// Step binds a normalizer Func to one attribute index.
type Step struct {
	AttrIndex int
	Func      Func
}

// Pipeline is an ordered sequence of (attribute-index, normalizer) steps,
// applied per field in registration order; the id column is never touched.
type Pipeline struct {
	Steps []Step
}

// NewPipeline builds a Pipeline from the given steps, applied in order.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{Steps: steps}
}

// Apply runs every step over every record of ds, returning a new Dataset
// (the original is left untouched, matching the record package's
// immutable-once-loaded contract).
func (p *Pipeline) Apply(ds *record.Dataset) (*record.Dataset, error) {
	start := time.Now()
	out := ds.Clone()
	for _, step := range p.Steps {
		for i := range out.Records {
			v := out.Records[i].Attr(step.AttrIndex)
			if v == nil {
				continue
			}
			nv, err := step.Func(v)
			if err != nil {
				telemetry.EmitCounter(metrics.NormalizeNonMappable, 1, map[string]string{metrics.TagOperation: "apply"})
				return nil, fmt.Errorf("normalize record %d attr %d: %w", i, step.AttrIndex, err)
			}
			out.Records[i].Attributes[step.AttrIndex] = nv
		}
	}
	telemetry.EmitCounter(metrics.NormalizeApplyTotal, 1, map[string]string{metrics.TagOperation: "apply"})
	telemetry.EmitHistogram(metrics.NormalizeApplyMs, time.Since(start), map[string]string{metrics.TagOperation: "normalize_apply"})
	return out, nil
}
