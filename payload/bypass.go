package payload

import (
	"github.com/mewkiz/s1l0/internal/bits"
	"github.com/mewkiz/s1l0/internal/decodeerr"
)

// bypassWordBits is the width of one packed Bypass sample word (sign bit +
// 9-bit magnitude).
const bypassWordBits = 10

// bypassChannelBytes returns the fixed per-channel byte stride for a Bypass
// user-data block of numQuads samples: 2*ceil(10*numQuads/16) bytes,
// rounding each channel up to the next 16-bit word.
func bypassChannelBytes(numQuads int) int {
	bits := bypassWordBits * numQuads
	words := (bits + 15) / 16
	return words * 2
}

// DecodeBypass decodes the four Bypass ("Type A/B") channels from data,
// component C4. Each channel is numQuads consecutive 10-bit sign-magnitude
// words, starting at a fixed byte offset so that channels never share a
// partial word.
func DecodeBypass(data []byte, numQuads int) (ie, io, qe, qo []float64, err error) {
	stride := bypassChannelBytes(numQuads)
	channels := make([][]float64, 4)
	for ch := 0; ch < 4; ch++ {
		start := ch * stride
		end := start + stride
		if end > len(data) {
			return nil, nil, nil, nil, decodeerr.At(decodeerr.Truncation, int64(start),
				errShortf("bypass channel %d needs %d bytes, have %d", ch, stride, len(data)-start))
		}
		vals, err := decodeBypassChannel(data[start:end], numQuads)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		channels[ch] = vals
	}
	return channels[0], channels[1], channels[2], channels[3], nil
}

func decodeBypassChannel(data []byte, numQuads int) ([]float64, error) {
	r := NewBitReader(data)
	out := make([]float64, numQuads)
	for i := range out {
		word, err := r.ReadBits(bypassWordBits)
		if err != nil {
			return nil, err
		}
		out[i] = float64(bits.SignMagnitude(word, bypassWordBits))
	}
	return out, nil
}
