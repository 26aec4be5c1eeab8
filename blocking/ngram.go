package blocking

import (
	"strings"

	"github.com/fulmenhq/nazgo/record"
)

// ngramNode is one level of the nested-dictionary index NGramBlocking builds
// for each side: children are keyed by the next ngramSize-character slice of
// the remaining string, and refs accumulates at the depth where the string
// ran out or maxDepth was reached.
type ngramNode struct {
	children map[string]*ngramNode
	refs     []record.Ref
}

func newNgramNode() *ngramNode {
	return &ngramNode{children: make(map[string]*ngramNode)}
}

func (n *ngramNode) insert(s string, depth, maxDepth, ngramSize int, ref record.Ref) {
	if depth >= maxDepth || len(s) == 0 {
		n.refs = append(n.refs, ref)
		return
	}
	size := ngramSize
	if size > len(s) {
		size = len(s)
	}
	key := s[:size]
	rest := s[size:]
	child, ok := n.children[key]
	if !ok {
		child = newNgramNode()
		n.children[key] = child
	}
	child.insert(rest, depth+1, maxDepth, ngramSize, ref)
}

// NGramBlocking descends attribute values ngramSize characters at a time,
// building a tree per side, and yields a block wherever the two trees agree
// on a full path down to maxDepth (or the string is exhausted first).
type NGramBlocking struct {
	RefAttr, TargetAttr int
	NGramSize           int
	MaxDepth            int

	refRoot    *ngramNode
	targetRoot *ngramNode
}

// NewNGramBlocking returns an NGramBlocking comparing attribute refAttr
// against targetAttr, descending ngramSize characters per level to at most
// maxDepth levels.
func NewNGramBlocking(refAttr, targetAttr, ngramSize, maxDepth int) *NGramBlocking {
	return &NGramBlocking{RefAttr: refAttr, TargetAttr: targetAttr, NGramSize: ngramSize, MaxDepth: maxDepth}
}

func ngramKeyString(v record.Value) string {
	s, _ := v.(string)
	return strings.ToLower(strings.TrimSpace(s))
}

// Fit builds the two n-gram trees.
func (b *NGramBlocking) Fit(ref, target *record.Dataset) error {
	return recordFit("ngram", func() error {
		b.refRoot = newNgramNode()
		for i := 0; i < ref.Len(); i++ {
			b.refRoot.insert(ngramKeyString(ref.Attr(i, b.RefAttr)), 0, b.MaxDepth, b.NGramSize, ref.Ref(i))
		}
		b.targetRoot = newNgramNode()
		for i := 0; i < target.Len(); i++ {
			b.targetRoot.insert(ngramKeyString(target.Attr(i, b.TargetAttr)), 0, b.MaxDepth, b.NGramSize, target.Ref(i))
		}
		return nil
	})
}

// Blocks recursively descends both trees in lock step, matching only shared
// keys, and emits a block at every node where both sides have accumulated
// refs.
func (b *NGramBlocking) Blocks() ([]Block, error) {
	if b.refRoot == nil || b.targetRoot == nil {
		return nil, ErrNotFitted
	}
	var out []Block
	iterNgramPair(b.refRoot, b.targetRoot, &out)
	recordBlocks("ngram", out)
	return out, nil
}

func iterNgramPair(refNode, targetNode *ngramNode, out *[]Block) {
	if len(refNode.refs) > 0 && len(targetNode.refs) > 0 {
		*out = append(*out, Block{Ref: refNode.refs, Target: targetNode.refs})
	}
	for key, refChild := range refNode.children {
		targetChild, ok := targetNode.children[key]
		if !ok {
			continue
		}
		iterNgramPair(refChild, targetChild, out)
	}
}
