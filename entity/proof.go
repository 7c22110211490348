package entity

import "github.com/ethereum/go-ethereum/common/hexutil"

// DigestLength is fixed by the proof scheme. The digest is opaque to the relay.
const DigestLength = 20

type Digest [DigestLength]byte

func (d Digest) Bytes() []byte {
	return d[:]
}

func (d Digest) MarshalText() ([]byte, error) {
	return hexutil.Bytes(d[:]).MarshalText()
}

// MerklePath lists sibling digests from the leaf level up to the root.
type MerklePath []Digest

// MerkleMessageProof is an inclusion proof of one message in an attested accumulator.
type MerkleMessageProof struct {
	VAA      hexutil.Bytes `json:"vaa"`
	Root     Digest        `json:"root"`
	Slot     uint64        `json:"slot"`
	RingSize uint32        `json:"ring_size"`
	Path     MerklePath    `json:"path"`
}

type ProofSet struct {
	WormholeMerkleProof MerkleMessageProof `json:"wormhole_merkle_proof"`
}
