package narrowphase

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// manifoldPointID hashes the features a clipped contact point came from, so the same pair of
// edges produces the same ids from one step to the next. It never returns DistanceID.
func manifoldPointID(reference, incident, vertex int, flipped bool) ManifoldPointID {
	var buf [25]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(int64(reference)))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(incident)))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(vertex)))
	if flipped {
		buf[24] = 1
	}

	id := ManifoldPointID(xxhash.Sum64(buf[:]))
	if id == DistanceID {
		id++
	}
	return id
}
