package blocking

import (
	"github.com/fulmenhq/nazgo/record"
)

// Stage builds a Blocking strategy restricted to the given reference and
// target subsets; PipelineBlocking calls it once per upstream block.
type Stage func(ref, target *record.Dataset) (Blocking, error)

// PipelineBlocking chains blocking strategies: each stage only refines
// candidate pairs that survived every prior stage, so later stages run over
// strictly smaller datasets than the first.
type PipelineBlocking struct {
	First  Blocking
	Stages []Stage

	ref, target *record.Dataset
	blocks      []Block
}

// NewPipelineBlocking returns a PipelineBlocking whose first stage is
// already-constructed (it indexes the full datasets) and whose later stages
// are built fresh, per upstream block, from the subsets that reached them.
func NewPipelineBlocking(first Blocking, stages ...Stage) *PipelineBlocking {
	return &PipelineBlocking{First: first, Stages: stages}
}

// Fit fits the first stage over the full datasets and remembers them for the
// subsequent per-block refinement in Blocks.
func (p *PipelineBlocking) Fit(ref, target *record.Dataset) error {
	return recordFit("pipeline", func() error {
		p.ref = ref
		p.target = target
		return p.First.Fit(ref, target)
	})
}

// Blocks runs the first stage, then refines each resulting block through
// every later stage in turn, restricting each to the subset of records that
// reached it.
func (p *PipelineBlocking) Blocks() ([]Block, error) {
	blocks, err := p.First.Blocks()
	if err != nil {
		return nil, err
	}
	for _, stage := range p.Stages {
		var refined []Block
		for _, b := range blocks {
			refSubset := subset(p.ref, b.Ref)
			targetSubset := subset(p.target, b.Target)

			strategy, err := stage(refSubset, targetSubset)
			if err != nil {
				return nil, err
			}
			if err := strategy.Fit(refSubset, targetSubset); err != nil {
				return nil, err
			}
			stageBlocks, err := strategy.Blocks()
			if err != nil {
				return nil, err
			}
			for _, sb := range stageBlocks {
				refined = append(refined, Block{
					Ref:    remapLocal(sb.Ref, b.Ref),
					Target: remapLocal(sb.Target, b.Target),
				})
			}
		}
		blocks = refined
	}
	p.blocks = blocks
	recordBlocks("pipeline", blocks)
	return blocks, nil
}

// subset builds a dataset containing exactly the given refs, in order,
// preserving the parent's arity and name.
func subset(ds *record.Dataset, refs []record.Ref) *record.Dataset {
	records := make([]record.Record, len(refs))
	for i, r := range refs {
		records[i] = ds.At(r.Index)
	}
	out, _ := record.NewDataset(ds.Name, ds.Arity, records)
	return out
}

// remapLocal translates refs produced against a subset's local indices back
// to the parent refs they stand for (local index i corresponds to
// parentRefs[i]), so the returned refs carry the parent dataset's index and
// id; a local index outside parentRefs is passed through unchanged.
func remapLocal(local []record.Ref, parentRefs []record.Ref) []record.Ref {
	out := make([]record.Ref, len(local))
	for i, r := range local {
		if r.Index >= 0 && r.Index < len(parentRefs) {
			out[i] = parentRefs[r.Index]
		} else {
			out[i] = r
		}
	}
	return out
}
