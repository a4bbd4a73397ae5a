package payload

import "github.com/mewkiz/s1l0/internal/decodeerr"

// SampleCode is the (sign, mcode) pair produced by the FDBAQ Huffman
// decode stage, before table-driven reconstruction (component C5's output,
// data model "SampleCode").
type SampleCode struct {
	Sign  uint8 // 0 or 1
	MCode uint8
}

const blockSize = 128

// FDBAQResult holds the block metadata and per-channel sample codes
// extracted by DecodeFDBAQ, prior to reconstruction.
type FDBAQResult struct {
	BRC    []BRC
	THIDX  []uint8
	IE     []SampleCode
	IO     []SampleCode
	QE     []SampleCode
	QO     []SampleCode
}

// DecodeFDBAQ parses the BRC/THIDX blocks and Huffman-decodes sample codes
// for the four channels IE, IO, QE, QO, in that order, component C5.
// Channels are separated by 16-bit word alignment.
func DecodeFDBAQ(data []byte, numQuads int) (*FDBAQResult, error) {
	numBlocks := (numQuads + blockSize - 1) / blockSize
	if numQuads == 0 {
		numBlocks = 0
	}
	res := &FDBAQResult{
		BRC:   make([]BRC, 0, numBlocks),
		THIDX: make([]uint8, 0, numBlocks),
	}

	r := NewBitReader(data)

	ie, err := processChannel(r, numQuads, numBlocks, res, true, false)
	if err != nil {
		return nil, err
	}
	res.IE = ie
	if err := r.AlignToWord(); err != nil {
		return nil, err
	}

	io, err := processChannel(r, numQuads, numBlocks, res, false, false)
	if err != nil {
		return nil, err
	}
	res.IO = io
	if err := r.AlignToWord(); err != nil {
		return nil, err
	}

	qe, err := processChannel(r, numQuads, numBlocks, res, false, true)
	if err != nil {
		return nil, err
	}
	res.QE = qe
	if err := r.AlignToWord(); err != nil {
		return nil, err
	}

	qo, err := processChannel(r, numQuads, numBlocks, res, false, false)
	if err != nil {
		return nil, err
	}
	res.QO = qo

	return res, nil
}

// processChannel decodes one channel's worth of sample codes across
// numBlocks BAQ blocks. readBRC and readTHIDX control whether this channel
// (IE, QE respectively) additionally reads the per-block prefix; IO and QO
// reuse the BRC/THIDX lists already populated on res.
func processChannel(r *BitReader, numQuads, numBlocks int, res *FDBAQResult, readBRC, readTHIDX bool) ([]SampleCode, error) {
	out := make([]SampleCode, 0, numQuads)
	decoded := 0
	for block := 0; block < numBlocks; block++ {
		if readBRC {
			v, err := r.ReadBits(3)
			if err != nil {
				return nil, err
			}
			brc := BRC(v)
			if !brc.Valid() {
				return nil, decodeerr.At(decodeerr.CorruptValue, int64(r.BytePosition()), errShortf("BRC %d out of range", v))
			}
			res.BRC = append(res.BRC, brc)
		}
		if readTHIDX {
			v, err := r.ReadBits(8)
			if err != nil {
				return nil, err
			}
			res.THIDX = append(res.THIDX, uint8(v))
		}

		brc := res.BRC[block]
		remaining := numQuads - decoded
		if remaining > blockSize {
			remaining = blockSize
		}
		for i := 0; i < remaining; i++ {
			sign, err := r.ReadBit()
			if err != nil {
				return nil, err
			}
			mcode, err := decodeHuffman(r, brc)
			if err != nil {
				return nil, err
			}
			out = append(out, SampleCode{Sign: uint8(sign), MCode: mcode})
		}
		decoded += remaining
	}
	return out, nil
}
