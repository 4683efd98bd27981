package zkp

import (
	"encoding/binary"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
)

// BulletproofBits is the bit width of the proven range [0, 2^64).
const BulletproofBits = 64

var (
	generatorLabelG = []byte("zkp.mleku.dev/bulletproof/G")
	generatorLabelH = []byte("zkp.mleku.dev/bulletproof/H")
	generatorLabelU = []byte("zkp.mleku.dev/bulletproof/U")
)

// bulletproofGenerators are the vector generators G_i, H_i and the inner
// product generator U. None has a known discrete log relative to the others.
type bulletproofGenerators struct {
	g [BulletproofBits]btcec.JacobianPoint
	h [BulletproofBits]btcec.JacobianPoint
	u btcec.JacobianPoint
}

var (
	bpGenerators     *bulletproofGenerators
	bpGeneratorsOnce sync.Once
)

func generators() *bulletproofGenerators {
	bpGeneratorsOnce.Do(func() {
		gens := &bulletproofGenerators{}
		for i := range gens.g {
			gens.g[i] = hashToCurve(generatorLabelG, uint32(i))
			gens.h[i] = hashToCurve(generatorLabelH, uint32(i))
		}
		gens.u = hashToCurve(generatorLabelU, 0)
		bpGenerators = gens
	})
	return bpGenerators
}

// hashToCurve maps (label, index) to a curve point by try-and-increment:
// x = SHA256(label || index || counter) until x lifts to a point, taking the
// even y.
func hashToCurve(label []byte, index uint32) btcec.JacobianPoint {
	var idx, ctr [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	for counter := uint32(0); ; counter++ {
		binary.BigEndian.PutUint32(ctr[:], counter)
		h := sha256Sum(label, idx[:], ctr[:])
		x, ok := parseFieldX(h[:])
		if !ok {
			continue
		}
		if p, ok := liftX(&x, false); ok {
			return p
		}
	}
}
