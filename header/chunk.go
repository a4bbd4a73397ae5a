package header

// chunkRow is the subset of a packet's decoded fields the acquisition-chunk
// state machine reads, gathered here so AssignAcquisitionChunks does not
// need the full Columns transform or a secondary-header pointer per call.
type chunkRow struct {
	hasSecondary bool
	signalType   SignalType
	swathNumber  uint8
	numQuads     uint16
	baqMode      BaqMode
	swst         float64
	swl          float64
	pri          float64
	priCount     uint32
	// azimuthBeam/elevationBeam are always nil in this decoder: the
	// sas_ssb_message bytes that would carry ABADR/EBADR are never decoded.
	// The break conditions that reference them are still evaluated below;
	// with both always nil they can never fire, which is the correct
	// behavior for data this decoder cannot observe rather than a special
	// case.
	azimuthBeam   *uint16
	elevationBeam *uint16
}

func rowFromColumns(c Columns, i int) chunkRow {
	return chunkRow{
		hasSecondary:  c.HasSecondary[i],
		signalType:    c.SignalType[i],
		swathNumber:   c.SwathNumber[i],
		numQuads:      c.NumQuads[i],
		baqMode:       c.BAQMode[i],
		swst:          c.SWST[i],
		swl:           c.SWL[i],
		pri:           c.PRI[i],
		priCount:      c.PRICount[i],
		azimuthBeam:   nil,
		elevationBeam: nil,
	}
}

// AssignAcquisitionChunks runs the acquisition-chunk state machine over a
// file's decoded header columns, returning one chunk id per packet, numbered
// from 0.
//
// A new chunk starts at packet 0, whenever a packet has no secondary header
// (undefined fields cannot be compared for constancy), or whenever, relative
// to the previous packet:
//   - signal type, swath number, num_quads, BAQ mode, SWST, SWL or PRI
//     differs;
//   - the PRI counter does not increment by exactly 1 modulo 2^32;
//   - the azimuth-beam address decreases;
//   - the elevation-beam address changes.
func AssignAcquisitionChunks(c Columns) []int {
	n := len(c.PacketVersionNumber)
	chunks := make([]int, n)
	if n == 0 {
		return chunks
	}

	var prev chunkRow
	havePrev := false
	id := 0

	for i := 0; i < n; i++ {
		row := rowFromColumns(c, i)
		brk := !havePrev || !row.hasSecondary || !prev.hasSecondary || breaks(prev, row)
		if brk && havePrev {
			id++
		}
		chunks[i] = id
		prev = row
		havePrev = true
	}
	return chunks
}

func breaks(prev, cur chunkRow) bool {
	if cur.signalType != prev.signalType ||
		cur.swathNumber != prev.swathNumber ||
		cur.numQuads != prev.numQuads ||
		cur.baqMode != prev.baqMode ||
		cur.swst != prev.swst ||
		cur.swl != prev.swl ||
		cur.pri != prev.pri {
		return true
	}

	if !priIncrements(prev.priCount, cur.priCount) {
		return true
	}

	if prev.azimuthBeam != nil && cur.azimuthBeam != nil && *cur.azimuthBeam < *prev.azimuthBeam {
		return true
	}

	if prev.elevationBeam != nil && cur.elevationBeam != nil && *cur.elevationBeam != *prev.elevationBeam {
		return true
	}

	return false
}

// priIncrements reports whether cur is prev+1, wrapping at 2^32-1 -> 0.
func priIncrements(prev, cur uint32) bool {
	return cur == prev+1
}
