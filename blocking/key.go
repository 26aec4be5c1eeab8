package blocking

import (
	"github.com/fulmenhq/nazgo/distance"
	"github.com/fulmenhq/nazgo/record"
)

// KeyFunc computes the blocking key for one record's attribute value.
type KeyFunc func(v record.Value) string

// KeyBlocking groups records by an exact key: two records become candidates
// only if KeyFunc returns the same string for both.
type KeyBlocking struct {
	RefAttr, TargetAttr int
	Key                 KeyFunc

	refKeys    map[string][]record.Ref
	targetKeys map[string][]record.Ref
}

// NewKeyBlocking returns a KeyBlocking comparing attribute refAttr of the
// reference dataset against attribute targetAttr of the target dataset.
func NewKeyBlocking(refAttr, targetAttr int, key KeyFunc) *KeyBlocking {
	return &KeyBlocking{RefAttr: refAttr, TargetAttr: targetAttr, Key: key}
}

// Fit indexes both datasets by key.
func (b *KeyBlocking) Fit(ref, target *record.Dataset) error {
	return recordFit("key", func() error {
		b.refKeys = indexByKey(ref, b.RefAttr, b.Key)
		b.targetKeys = indexByKey(target, b.TargetAttr, b.Key)
		return nil
	})
}

func indexByKey(ds *record.Dataset, attr int, key KeyFunc) map[string][]record.Ref {
	out := make(map[string][]record.Ref)
	for i := 0; i < ds.Len(); i++ {
		k := key(ds.Attr(i, attr))
		out[k] = append(out[k], ds.Ref(i))
	}
	return out
}

// Blocks returns one Block per key present in both datasets; a key present
// on only one side never yields a block, matching the shared contract that
// neither side of a block is ever empty.
func (b *KeyBlocking) Blocks() ([]Block, error) {
	if b.refKeys == nil || b.targetKeys == nil {
		return nil, ErrNotFitted
	}
	var out []Block
	for k, refs := range b.refKeys {
		targets, ok := b.targetKeys[k]
		if !ok || len(targets) == 0 || len(refs) == 0 {
			continue
		}
		out = append(out, Block{Ref: refs, Target: targets})
	}
	recordBlocks("key", out)
	return out, nil
}

// SoundexBlocking is KeyBlocking whose key is the Soundex code of the
// attribute value, grouping phonetically similar strings together.
func SoundexBlocking(refAttr, targetAttr int, lang distance.Language) *KeyBlocking {
	return NewKeyBlocking(refAttr, targetAttr, func(v record.Value) string {
		s, _ := v.(string)
		return distance.SoundexCode(s, lang)
	})
}
