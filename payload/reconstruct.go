package payload

import "github.com/mewkiz/s1l0/internal/decodeerr"

// Reconstruct maps a (BRC, THIDX, SampleCode) triple to a real value using
// the static lookup tables.
//
// The "must not happen" branch (mcode > limit[brc]) is treated as a fatal
// CorruptValue error rather than silently zero-filling.
func Reconstruct(brc BRC, thidx uint8, s SampleCode) (float64, error) {
	if !brc.Valid() {
		return 0, decodeerr.New(decodeerr.CorruptValue, errShortf("invalid BRC %d", brc))
	}
	limit := mcodeLimit[brc]
	if s.MCode > limit {
		return 0, decodeerr.New(decodeerr.CorruptValue,
			errShortf("mcode %d exceeds alphabet maximum %d for BRC %d", s.MCode, limit, brc))
	}

	var magnitude float64
	if thidx <= simpleThreshold[brc] {
		switch {
		case s.MCode < limit:
			magnitude = float64(s.MCode)
		case s.MCode == limit:
			magnitude = bTables[brc][thidx]
		}
	} else {
		magnitude = nrlTables[brc][s.MCode] * sigmaFactor[thidx]
	}

	if s.Sign != 0 {
		return -magnitude, nil
	}
	return magnitude, nil
}

// ReconstructChannel reconstructs a full channel of sample codes, consuming
// one BRC/THIDX pair per block of up to 128 codes, mirroring the way
// DecodeFDBAQ grouped them.
func ReconstructChannel(codes []SampleCode, brcs []BRC, thidxs []uint8, numQuads int) ([]float64, error) {
	out := make([]float64, len(codes))
	decoded := 0
	for block := 0; decoded < len(codes); block++ {
		remaining := numQuads - decoded
		if remaining > blockSize {
			remaining = blockSize
		}
		if remaining > len(codes)-decoded {
			remaining = len(codes) - decoded
		}
		brc := brcs[block]
		thidx := thidxs[block]
		for i := 0; i < remaining; i++ {
			v, err := Reconstruct(brc, thidx, codes[decoded+i])
			if err != nil {
				return nil, err
			}
			out[decoded+i] = v
		}
		decoded += remaining
	}
	return out, nil
}
