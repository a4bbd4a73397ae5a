package payload

import (
	"bytes"

	"github.com/icza/bitio"

	"github.com/mewkiz/s1l0/internal/decodeerr"
)

// BitReader is a cursor over a borrowed byte slice exposing MSB-first bit
// reads and 16-bit word alignment (component C3). It wraps
// github.com/icza/bitio's reader, layering byte/bit position tracking on
// top, since bitio does not itself expose a cursor a caller can introspect.
//
// A BitReader never retains or copies the byte slice beyond reading from
// it; it borrows it for its lifetime, per the data-model ownership rule.
type BitReader struct {
	r       *bitio.Reader
	bitPos  int // 0..7, bit offset within the current byte
	bytePos int // index of the current byte
}

// NewBitReader returns a BitReader over data, cursor at byte 0, bit 0.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{r: bitio.NewReader(bytes.NewReader(data))}
}

// ReadBit reads a single bit, MSB-first.
func (r *BitReader) ReadBit() (uint64, error) {
	return r.ReadBits(1)
}

// ReadBits reads n bits (1 <= n <= 24) and returns them with the first bit
// read as the most significant bit of the result.
func (r *BitReader) ReadBits(n uint8) (uint64, error) {
	v, err := r.r.ReadBits(n)
	if err != nil {
		return 0, decodeerr.At(decodeerr.Truncation, int64(r.bytePos), err)
	}
	r.advance(int(n))
	return uint64(v), nil
}

// advance moves the cursor forward by n bits.
func (r *BitReader) advance(n int) {
	total := r.bitPos + n
	r.bytePos += total / 8
	r.bitPos = total % 8
}

// AlignToWord discards any pending bits in the current byte if the bit
// cursor is not already at a byte boundary, then advances the byte cursor
// to the next even offset, rounding up. This matches the FDBAQ
// inter-channel alignment rule exactly.
func (r *BitReader) AlignToWord() error {
	if r.bitPos != 0 {
		pad := 8 - r.bitPos
		if _, err := r.r.ReadBits(uint8(pad)); err != nil {
			return decodeerr.At(decodeerr.Truncation, int64(r.bytePos), err)
		}
		r.bytePos++
		r.bitPos = 0
	}
	if r.bytePos%2 != 0 {
		if _, err := r.r.ReadBits(8); err != nil {
			return decodeerr.At(decodeerr.Truncation, int64(r.bytePos), err)
		}
		r.bytePos++
	}
	return nil
}

// BytePosition returns the current byte offset of the cursor.
func (r *BitReader) BytePosition() int { return r.bytePos }

// BitPositionInByte returns the current bit offset (0..7) within the
// current byte.
func (r *BitReader) BitPositionInByte() int { return r.bitPos }
