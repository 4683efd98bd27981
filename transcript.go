package zkp

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/gtank/merlin"
)

const transcriptLabel = "zkp.mleku.dev bulletproof v1"

// transcript is the Fiat-Shamir transcript of one range proof. Prover,
// verifier and rewinder feed it the same messages in the same order.
type transcript struct {
	t *merlin.Transcript
}

// newTranscript binds the range width, the commitment and the extra commit.
func newTranscript(commit, extraCommit []byte) *transcript {
	tr := &transcript{t: merlin.NewTranscript(transcriptLabel)}
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], BulletproofBits)
	tr.t.AppendMessage([]byte("n"), n[:])
	tr.t.AppendMessage([]byte("V"), commit)
	tr.t.AppendMessage([]byte("extra"), extraCommit)
	return tr
}

func (tr *transcript) appendPoint(label string, p *btcec.JacobianPoint) {
	tr.t.AppendMessage([]byte(label), serializeCompressed(p))
}

func (tr *transcript) appendScalar(label string, s *btcec.ModNScalar) {
	tr.t.AppendMessage([]byte(label), scalarBytes(s))
}

// challenge extracts a scalar. ok is false for a zero challenge, which makes
// the proof unusable.
func (tr *transcript) challenge(label string) (s btcec.ModNScalar, ok bool) {
	s.SetByteSlice(tr.t.ExtractBytes([]byte(label), 32))
	return s, !s.IsZero()
}
