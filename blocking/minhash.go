package blocking

import (
	"github.com/fulmenhq/nazgo/minhash"
	"github.com/fulmenhq/nazgo/record"
)

// MinHashingBlocking blocks records whose attribute text collides in a
// trained MinHash/LSH engine: it trains one engine over the concatenation of
// both datasets, then splits each resulting cluster back into its
// reference-side and target-side members by the index offset at which the
// target side begins.
type MinHashingBlocking struct {
	RefAttr, TargetAttr int
	Threshold           float64
	KWordgrams          int
	SignatureLength     int
	Seed                int64

	engine   *minhash.Engine
	refCount int
	refIDs   []record.Ref
	targetIDs []record.Ref
}

// NewMinHashingBlocking returns a MinHashingBlocking comparing refAttr
// against targetAttr at the given similarity threshold.
func NewMinHashingBlocking(refAttr, targetAttr int, threshold float64, kWordgrams, signatureLength int) *MinHashingBlocking {
	return &MinHashingBlocking{
		RefAttr: refAttr, TargetAttr: targetAttr,
		Threshold: threshold, KWordgrams: kWordgrams, SignatureLength: signatureLength,
		Seed: 1,
	}
}

func textOrEmpty(v record.Value) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return ""
	}
	return s
}

// Fit trains the MinHash engine over ref's attribute values followed by
// target's, remembering the boundary between them.
func (b *MinHashingBlocking) Fit(ref, target *record.Dataset) error {
	return recordFit("minhash", func() error {
		sentences := make([]string, 0, ref.Len()+target.Len())
		refIDs := make([]record.Ref, ref.Len())
		for i := 0; i < ref.Len(); i++ {
			sentences = append(sentences, textOrEmpty(ref.Attr(i, b.RefAttr)))
			refIDs[i] = ref.Ref(i)
		}
		targetIDs := make([]record.Ref, target.Len())
		for i := 0; i < target.Len(); i++ {
			sentences = append(sentences, textOrEmpty(target.Attr(i, b.TargetAttr)))
			targetIDs[i] = target.Ref(i)
		}

		b.engine = minhash.New(b.Seed)
		b.refCount = ref.Len()
		b.refIDs = refIDs
		b.targetIDs = targetIDs
		return b.engine.Train(sentences, b.KWordgrams, b.SignatureLength)
	})
}

// Blocks returns one Block per MinHash cluster that has members on both
// sides, translating local cluster indices back to dataset Refs.
func (b *MinHashingBlocking) Blocks() ([]Block, error) {
	if b.engine == nil {
		return nil, ErrNotFitted
	}
	refGroups, targetGroups, err := b.engine.PredictFor(b.Threshold, b.refCount)
	if err != nil {
		return nil, err
	}
	out := make([]Block, 0, len(refGroups))
	for i := range refGroups {
		refs := make([]record.Ref, len(refGroups[i]))
		for j, idx := range refGroups[i] {
			refs[j] = b.refIDs[idx]
		}
		targets := make([]record.Ref, len(targetGroups[i]))
		for j, idx := range targetGroups[i] {
			targets[j] = b.targetIDs[idx]
		}
		out = append(out, Block{Ref: refs, Target: targets})
	}
	recordBlocks("minhash", out)
	return out, nil
}
