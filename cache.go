package s1l0

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/pkg/errors"
)

// cacheMagic tags the on-disk burst cache container; Go has no
// numpy-compatible container available in this pack, so the cache uses a
// small fixed header of its own instead of replicating .npy framing.
const cacheMagic = "S1L0BRST"

const cacheHeaderSize = 8 + 4 + 4 + 4 // magic + burst number + num_quads + sample count

// writeBurstCache serializes one burst's decoded complex samples to path as
// little-endian complex64 values, preceded by a small header identifying
// the burst and its shape.
func writeBurstCache(path string, burst, numQuads int, data []complex64) error {
	buf := make([]byte, cacheHeaderSize+8*len(data))
	copy(buf[0:8], cacheMagic)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(burst))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(numQuads))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(data)))

	for i, c := range data {
		off := cacheHeaderSize + i*8
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(real(c)))
		binary.LittleEndian.PutUint32(buf[off+4:off+8], math.Float32bits(imag(c)))
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errors.Wrapf(err, "s1l0: write burst cache %q", path)
	}
	return nil
}

// readBurstCache reads back a cache written by writeBurstCache. A missing
// file is not an error: ok is false and err is nil, so callers can fall
// through to decoding.
func readBurstCache(path string) (data []complex64, ok bool, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "s1l0: read burst cache %q", path)
	}
	if len(raw) < cacheHeaderSize || string(raw[0:8]) != cacheMagic {
		return nil, false, newf(CorruptValue, "s1l0: %q is not a burst cache", path)
	}
	count := int(binary.LittleEndian.Uint32(raw[16:20]))
	want := cacheHeaderSize + 8*count
	if len(raw) < want {
		return nil, false, newf(Truncation, "s1l0: burst cache %q truncated: want %d bytes, have %d", path, want, len(raw))
	}

	out := make([]complex64, count)
	for i := range out {
		off := cacheHeaderSize + i*8
		re := math.Float32frombits(binary.LittleEndian.Uint32(raw[off : off+4]))
		im := math.Float32frombits(binary.LittleEndian.Uint32(raw[off+4 : off+8]))
		out[i] = complex(re, im)
	}
	return out, true, nil
}
