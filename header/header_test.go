package header

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// buildPrimary packs the eight primary-header fields into 6 bytes using the
// same bit layout ParsePrimaryHeader expects, the inverse transform needed
// for the P5 round-trip test.
func buildPrimary(verNum, typ, secFlag, pid, pcat, seqFlags uint8, seqCount uint16, dataLenMinusOne uint16) []byte {
	w0 := uint16(verNum&0x07)<<13 | uint16(typ&0x01)<<12 | uint16(secFlag&0x01)<<11 | uint16(pid&0x7F)<<4 | uint16(pcat&0x0F)
	w1 := uint16(seqFlags&0x03)<<14 | (seqCount & 0x3FFF)
	w2 := dataLenMinusOne

	b := make([]byte, 6)
	binary.BigEndian.PutUint16(b[0:2], w0)
	binary.BigEndian.PutUint16(b[2:4], w1)
	binary.BigEndian.PutUint16(b[4:6], w2)
	return b
}

func TestPrimaryHeaderRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		verNum := uint8(rapid.IntRange(0, 7).Draw(t, "verNum"))
		typ := uint8(rapid.IntRange(0, 1).Draw(t, "typ"))
		secFlag := uint8(rapid.IntRange(0, 1).Draw(t, "secFlag"))
		pid := uint8(rapid.IntRange(0, 127).Draw(t, "pid"))
		pcat := uint8(rapid.IntRange(0, 15).Draw(t, "pcat"))
		seqFlags := uint8(rapid.IntRange(0, 3).Draw(t, "seqFlags"))
		seqCount := uint16(rapid.IntRange(0, 0x3FFF).Draw(t, "seqCount"))
		dataLenMinusOne := uint16(rapid.IntRange(0, 0xFFFF).Draw(t, "dataLenMinusOne"))

		raw := buildPrimary(verNum, typ, secFlag, pid, pcat, seqFlags, seqCount, dataLenMinusOne)
		h, err := ParsePrimaryHeader(raw)
		require.NoError(t, err)

		assert.Equal(t, verNum, h.PacketVersionNumber)
		assert.Equal(t, typ, h.PacketType)
		assert.Equal(t, secFlag, h.SecondaryHeaderFlag)
		assert.Equal(t, pid, h.PID)
		assert.Equal(t, pcat, h.PCAT)
		assert.Equal(t, seqFlags, h.SequenceFlags)
		assert.Equal(t, seqCount, h.PacketSequenceCount)
		assert.Equal(t, dataLenMinusOne+1, h.PacketDataLength)
	})
}

func TestPrimaryHeaderWrongSize(t *testing.T) {
	_, err := ParsePrimaryHeader(make([]byte, 5))
	assert.Error(t, err)
}

// buildSecondary packs a full 62-byte secondary header from explicit field
// values using the same encodings, the inverse of ParseSecondaryHeader.
func buildSecondary(coarseTime uint32, fineTimeRaw uint16, sync, dataTakeID uint32, ecc uint8, testMode, rxChan uint8, icid uint32, adwIdx uint8, adw uint16, spct, prict uint32, errFlag uint8, baqMode uint8, baqBlockLen, rangeDecim uint8, rxGainRaw uint8, txprrRaw, txpsfRaw uint16, txPulseLen uint32, rank uint8, pri, swst, swl uint32, ssbFlag, pol, tcmp uint8, calMode, tcmp2 uint8, txPulseNum uint8, sigType, swapFlag uint8, swathNum uint8, numQuads uint16) []byte {
	b := make([]byte, 62)
	binary.BigEndian.PutUint32(b[0:4], coarseTime)
	binary.BigEndian.PutUint16(b[4:6], fineTimeRaw)
	binary.BigEndian.PutUint32(b[6:10], sync)
	binary.BigEndian.PutUint32(b[10:14], dataTakeID)
	b[14] = ecc
	b[15] = (testMode&0x07)<<4 | (rxChan & 0x0F)
	binary.BigEndian.PutUint32(b[16:20], icid)
	b[20] = adwIdx
	binary.BigEndian.PutUint16(b[21:23], adw)
	binary.BigEndian.PutUint32(b[23:27], spct)
	binary.BigEndian.PutUint32(b[27:31], prict)
	b[31] = (errFlag&0x01)<<7 | (baqMode & 0x1F)
	b[32] = baqBlockLen
	b[34] = rangeDecim
	b[35] = rxGainRaw
	binary.BigEndian.PutUint16(b[36:38], txprrRaw)
	binary.BigEndian.PutUint16(b[38:40], txpsfRaw)
	b[40] = byte(txPulseLen >> 16)
	b[41] = byte(txPulseLen >> 8)
	b[42] = byte(txPulseLen)
	b[43] = rank & 0x1F
	b[44] = byte(pri >> 16)
	b[45] = byte(pri >> 8)
	b[46] = byte(pri)
	b[47] = byte(swst >> 16)
	b[48] = byte(swst >> 8)
	b[49] = byte(swst)
	b[50] = byte(swl >> 16)
	b[51] = byte(swl >> 8)
	b[52] = byte(swl)
	b[53] = (ssbFlag&0x01)<<7 | (pol&0x07)<<4 | (tcmp&0x03)<<2
	b[56] = (calMode&0x03)<<6 | (txPulseNum & 0x1F)
	b[57] = (sigType&0x0F)<<4 | (swapFlag & 0x01)
	b[58] = swathNum
	binary.BigEndian.PutUint16(b[59:61], numQuads)
	_ = tcmp2
	return b
}

func TestSecondaryHeaderRoundTrip(t *testing.T) {
	raw := buildSecondary(
		0x01020304, 1000, 0x352EF853, 0xAABBCCDD, 16, 6, 1, 42, 7, 0xBEEF,
		100, 200, 1, uint8(FDBAQMode0), 10, 4, 50, 0x8123, 0x0456, 12345,
		5, 90000, 80000, 70000, 1, 3, 2, 1, 1, 9, 0, 0, 1, 256,
	)
	h, err := ParseSecondaryHeader(raw)
	require.NoError(t, err)

	assert.Equal(t, uint32(0x01020304), h.CoarseTime)
	assert.InDelta(t, (1000.0+0.5)*twoPow(-16), h.FineTime, 1e-12)
	assert.Equal(t, uint32(0x352EF853), h.Sync)
	assert.True(t, h.SyncValid)
	assert.Equal(t, uint32(0xAABBCCDD), h.DataTakeID)
	assert.Equal(t, ECCNumber(16), h.ECCNumber)
	assert.Equal(t, TestMode(6), h.TestMode)
	assert.Equal(t, RxChannelId(1), h.RxChannelID)
	assert.Equal(t, uint32(42), h.InstrumentConfigID)
	assert.Equal(t, uint8(7), h.SubcomDataWordIndex)
	assert.Equal(t, uint16(0xBEEF), h.SubcomDataWord)
	assert.Equal(t, uint32(100), h.SpacePacketCount)
	assert.Equal(t, uint32(200), h.PRICount)
	assert.Equal(t, uint8(1), h.ErrorFlag)
	assert.Equal(t, FDBAQMode0, h.BAQMode)
	assert.Equal(t, uint8(10), h.BAQBlockLength)
	assert.Equal(t, RangeDecimation(4), h.RangeDecimation)
	assert.InDelta(t, float64(50)*-0.5, h.RxGain, 1e-9)
	assert.Equal(t, uint8(5), h.Rank)
	assert.InDelta(t, 12345.0/fRefHz, h.TxPulseLength, 1e-12)
	assert.InDelta(t, 90000.0/fRefHz, h.PRI, 1e-12)
	assert.InDelta(t, 80000.0/fRefHz, h.SWST, 1e-12)
	assert.InDelta(t, 70000.0/fRefHz, h.SWL, 1e-12)
	assert.Equal(t, Calibration, h.SASSSBFlag)
	assert.Equal(t, Polarisation(3), h.Polarisation)
	assert.Equal(t, TemperatureCompensation(2), h.TemperatureComp)
	assert.Equal(t, CalibrationMode(1), h.CalMode)
	assert.Equal(t, uint8(9), h.TxPulseNumber)
	assert.Equal(t, SignalType(0), h.SignalType)
	assert.Equal(t, uint8(0), h.SwapFlag)
	assert.Equal(t, uint8(1), h.SwathNumber)
	assert.Equal(t, uint16(256), h.NumQuads)

	// TXPRR/TXPSF sign convention: bit 15 set -> positive.
	wantTxprrSign := 1.0
	wantTxprr := wantTxprrSign * float64(0x8123&0x7FFF) * fRefHz * fRefHz / twoPow(21)
	assert.InDelta(t, wantTxprr, h.TxRampRate, 1e-6)

	wantTxpsfAdditive := wantTxprr / (4 * fRefHz)
	wantTxpsfSign := -1.0 // bit 15 of 0x0456 is 0
	wantTxpsf := wantTxpsfAdditive + wantTxpsfSign*float64(0x0456&0x7FFF)*fRefHz/twoPow(14)
	assert.InDelta(t, wantTxpsf, h.TxPulseStartFreq, 1e-6)
}

func TestSecondaryHeaderSyncMismatchNonFatal(t *testing.T) {
	raw := buildSecondary(0, 0, 0xDEADBEEF, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	h, err := ParseSecondaryHeader(raw)
	require.NoError(t, err)
	assert.False(t, h.SyncValid)
}

func TestSecondaryHeaderWrongSize(t *testing.T) {
	_, err := ParseSecondaryHeader(make([]byte, 61))
	assert.Error(t, err)
}

// TestUserDataBounds exercises P6: for a synthetic sequence of packets, each
// packet's user-data bounds are computed relative to the buffer.
func TestUserDataBounds(t *testing.T) {
	var buf []byte
	var wantBounds []UserDataBound
	numPackets := 5
	for i := 0; i < numPackets; i++ {
		userLen := 4 * (i + 1)
		dataLen := SecondaryHeaderSize + userLen
		primary := buildPrimary(0, 0, 1, 0, 0, 0, 0, uint16(dataLen-1))
		secondary := buildSecondary(0, 0, 0x352EF853, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
		packet := append(append([]byte{}, primary...), secondary...)
		packet = append(packet, make([]byte, userLen)...)

		offset := len(buf)
		buf = append(buf, packet...)
		wantBounds = append(wantBounds, UserDataBound{
			Offset: offset + PrimaryHeaderSize + SecondaryHeaderSize,
			Length: userLen,
		})
	}

	pos := 0
	var gotBounds []UserDataBound
	for pos < len(buf) {
		h, userOff, userLen, err := ParsePacketHeader(buf[pos:])
		require.NoError(t, err)
		gotBounds = append(gotBounds, UserDataBound{Offset: pos + userOff, Length: userLen})
		pos += h.PacketSize()
	}

	require.Equal(t, len(wantBounds), len(gotBounds))
	for i := range wantBounds {
		assert.Equal(t, wantBounds[i].Offset, gotBounds[i].Offset)
		assert.Equal(t, wantBounds[i].Length, gotBounds[i].Length)
	}
}

func TestParsePacketHeaderNoSecondary(t *testing.T) {
	primary := buildPrimary(0, 0, 0, 0, 0, 0, 0, 9) // dataLen = 10
	packet := append(primary, make([]byte, 10)...)

	h, userOff, userLen, err := ParsePacketHeader(packet)
	require.NoError(t, err)
	assert.Nil(t, h.Secondary)
	assert.Equal(t, PrimaryHeaderSize, userOff)
	assert.Equal(t, 10, userLen)
}

func TestParsePacketHeaderTruncated(t *testing.T) {
	_, _, _, err := ParsePacketHeader(make([]byte, 3))
	assert.Error(t, err)
}

// chunkColumns builds a minimal Columns with one packet per row, for
// chunk-invariant tests.
func chunkColumns(rows []chunkRow) Columns {
	n := len(rows)
	c := Columns{
		HasSecondary: make([]bool, n),
		SignalType:   make([]SignalType, n),
		SwathNumber:  make([]uint8, n),
		NumQuads:     make([]uint16, n),
		BAQMode:      make([]BaqMode, n),
		SWST:         make([]float64, n),
		SWL:          make([]float64, n),
		PRI:          make([]float64, n),
		PRICount:     make([]uint32, n),

		PacketVersionNumber: make([]uint8, n),
	}
	for i, r := range rows {
		c.HasSecondary[i] = r.hasSecondary
		c.SignalType[i] = r.signalType
		c.SwathNumber[i] = r.swathNumber
		c.NumQuads[i] = r.numQuads
		c.BAQMode[i] = r.baqMode
		c.SWST[i] = r.swst
		c.SWL[i] = r.swl
		c.PRI[i] = r.pri
		c.PRICount[i] = r.priCount
	}
	return c
}

// TestChunkInvariants is P7: within one chunk, every constant field is equal
// across all member packets.
func TestChunkInvariants(t *testing.T) {
	rows := []chunkRow{
		{hasSecondary: true, signalType: SignalEcho, swathNumber: 1, numQuads: 256, baqMode: FDBAQMode0, swst: 1.0, swl: 2.0, pri: 3.0, priCount: 10},
		{hasSecondary: true, signalType: SignalEcho, swathNumber: 1, numQuads: 256, baqMode: FDBAQMode0, swst: 1.0, swl: 2.0, pri: 3.0, priCount: 11},
		{hasSecondary: true, signalType: SignalEcho, swathNumber: 1, numQuads: 256, baqMode: FDBAQMode0, swst: 1.0, swl: 2.0, pri: 3.0, priCount: 12},
		// breaks: swath number changes -> new chunk
		{hasSecondary: true, signalType: SignalEcho, swathNumber: 2, numQuads: 256, baqMode: FDBAQMode0, swst: 1.0, swl: 2.0, pri: 3.0, priCount: 13},
	}
	c := chunkColumns(rows)
	chunks := AssignAcquisitionChunks(c)
	require.Len(t, chunks, 4)
	assert.Equal(t, []int{0, 0, 0, 1}, chunks)

	// Within chunk 0, every constant field is identical across member rows.
	for i := 0; i < 3; i++ {
		assert.Equal(t, rows[0].signalType, rows[i].signalType)
		assert.Equal(t, rows[0].swathNumber, rows[i].swathNumber)
		assert.Equal(t, rows[0].numQuads, rows[i].numQuads)
		assert.Equal(t, rows[0].baqMode, rows[i].baqMode)
		assert.Equal(t, rows[0].swst, rows[i].swst)
		assert.Equal(t, rows[0].swl, rows[i].swl)
		assert.Equal(t, rows[0].pri, rows[i].pri)
	}
}

func TestChunkBreaksOnPRICountGap(t *testing.T) {
	rows := []chunkRow{
		{hasSecondary: true, priCount: 10},
		{hasSecondary: true, priCount: 11},
		{hasSecondary: true, priCount: 13}, // gap: breaks
	}
	chunks := AssignAcquisitionChunks(chunkColumns(rows))
	assert.Equal(t, []int{0, 0, 1}, chunks)
}

func TestChunkPRICountWrapsAt32Bit(t *testing.T) {
	rows := []chunkRow{
		{hasSecondary: true, priCount: 0xFFFFFFFF},
		{hasSecondary: true, priCount: 0}, // wraps: no break
	}
	chunks := AssignAcquisitionChunks(chunkColumns(rows))
	assert.Equal(t, []int{0, 0}, chunks)
}

func TestChunkBreaksOnMissingSecondary(t *testing.T) {
	rows := []chunkRow{
		{hasSecondary: true, priCount: 10},
		{hasSecondary: false},
		{hasSecondary: true, priCount: 12},
	}
	chunks := AssignAcquisitionChunks(chunkColumns(rows))
	assert.Equal(t, []int{0, 1, 2}, chunks)
}
