package merkle

import (
	"bytes"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/omni/oracle-relay/entity"
)

const (
	leafPrefix = 0
	nodePrefix = 1
	nullPrefix = 2
)

func keccak160(data ...[]byte) entity.Digest {
	var d entity.Digest
	copy(d[:], crypto.Keccak256(data...))
	return d
}

func hashLeaf(leaf []byte) entity.Digest {
	return keccak160([]byte{leafPrefix}, leaf)
}

// hashNode sorts its children, so paths carry no left/right flags.
func hashNode(a, b entity.Digest) entity.Digest {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return keccak160([]byte{nodePrefix}, a[:], b[:])
}

func hashNull() entity.Digest {
	return keccak160([]byte{nullPrefix})
}

// Tree is a complete binary tree stored heap-style: nodes[1] is the root and
// leaves start at nodes[width].
type Tree struct {
	nodes []entity.Digest
	width int
	count int
}

func NewTree(leaves [][]byte) *Tree {
	width := 1
	for width < len(leaves) {
		width <<= 1
	}
	t := &Tree{
		nodes: make([]entity.Digest, 2*width),
		width: width,
		count: len(leaves),
	}
	null := hashNull()
	for i := 0; i < width; i++ {
		if i < len(leaves) {
			t.nodes[width+i] = hashLeaf(leaves[i])
		} else {
			t.nodes[width+i] = null
		}
	}
	for i := width - 1; i >= 1; i-- {
		t.nodes[i] = hashNode(t.nodes[2*i], t.nodes[2*i+1])
	}
	return t
}

func (t *Tree) Root() entity.Digest {
	return t.nodes[1]
}

func (t *Tree) Len() int {
	return t.count
}

// Path returns the sibling digests of leaf i, or false if i is out of range.
func (t *Tree) Path(i int) (entity.MerklePath, bool) {
	if i < 0 || i >= t.count {
		return nil, false
	}
	path := make(entity.MerklePath, 0, 8)
	for idx := t.width + i; idx > 1; idx >>= 1 {
		path = append(path, t.nodes[idx^1])
	}
	return path, true
}

func Verify(root entity.Digest, leaf []byte, path entity.MerklePath) bool {
	cur := hashLeaf(leaf)
	for _, sibling := range path {
		cur = hashNode(cur, sibling)
	}
	return cur == root
}
