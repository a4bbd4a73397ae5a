package ephemeris

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mewkiz/s1l0/header"
)

// wordsFromFloat64 splits an IEEE-754 binary64 into 4 big-endian uint16
// words, the inverse of beFloat64, used to build test fixtures.
func wordsFromFloat64(v float64) [4]uint16 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	return [4]uint16{
		binary.BigEndian.Uint16(b[0:2]),
		binary.BigEndian.Uint16(b[2:4]),
		binary.BigEndian.Uint16(b[4:6]),
		binary.BigEndian.Uint16(b[6:8]),
	}
}

// wordsFromFloat32 splits an IEEE-754 binary32 into 2 big-endian uint16
// words, the inverse of beFloat32.
func wordsFromFloat32(v float32) [2]uint16 {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	return [2]uint16{
		binary.BigEndian.Uint16(b[0:2]),
		binary.BigEndian.Uint16(b[2:4]),
	}
}

// buildFrame assembles the 64-word ADW payload for one complete
// sub-commutation frame from explicit field values.
func buildFrame(x, y, z float64, xv, yv, zv float32, pvtT float64, q [4]float32, xr, yr, zr float32, attT float64) [64]uint16 {
	var w [64]uint16

	xw := wordsFromFloat64(x)
	yw := wordsFromFloat64(y)
	zw := wordsFromFloat64(z)
	copy(w[0:4], xw[:])
	copy(w[4:8], yw[:])
	copy(w[8:12], zw[:])

	xvw := wordsFromFloat32(xv)
	yvw := wordsFromFloat32(yv)
	zvw := wordsFromFloat32(zv)
	copy(w[12:14], xvw[:])
	copy(w[14:16], yvw[:])
	copy(w[16:18], zvw[:])

	// Encode the PVT timestamp the same way fixedPointTimestamp decodes it:
	// pvtWords splits pvtT into w18..w21, which is exact for the values
	// used here (integer multiples of 2^-24).
	w[18], w[19], w[20], w[21] = pvtWords(pvtT)

	q0w := wordsFromFloat32(q[0])
	q1w := wordsFromFloat32(q[1])
	q2w := wordsFromFloat32(q[2])
	q3w := wordsFromFloat32(q[3])
	copy(w[22:24], q0w[:])
	copy(w[24:26], q1w[:])
	copy(w[26:28], q2w[:])
	copy(w[28:30], q3w[:])

	xrw := wordsFromFloat32(xr)
	yrw := wordsFromFloat32(yr)
	zrw := wordsFromFloat32(zr)
	copy(w[30:32], xrw[:])
	copy(w[32:34], yrw[:])
	copy(w[34:36], zrw[:])

	w[36], w[37], w[38], w[39] = pvtWords(attT)

	return w
}

// pvtWords picks four words whose fixed-point combination
// (w0*2^24 + w1*2^8 + w2*2^-8 + w3*2^-24) equals t exactly, for t an integer
// multiple of 2^-24 representable within the word ranges used here.
func pvtWords(t float64) (uint16, uint16, uint16, uint16) {
	scaled := uint64(t * 16777216) // t / 2^-24
	w3 := uint16(scaled & 0xFFFF)
	w2 := uint16((scaled >> 16) & 0xFFFF)
	w1 := uint16((scaled >> 32) & 0xFFFF)
	w0 := uint16((scaled >> 48) & 0xFFFF)
	return w0, w1, w2, w3
}

// columnsFromFrame builds a header.Columns holding exactly one complete
// 64-word frame starting at packet 0, each packet flagged HasSecondary.
func columnsFromFrame(frame [64]uint16) header.Columns {
	n := 64
	c := header.Columns{
		HasSecondary:        make([]bool, n),
		SubcomDataWordIndex: make([]uint8, n),
		SubcomDataWord:      make([]uint16, n),
	}
	for i := 0; i < n; i++ {
		c.HasSecondary[i] = true
		c.SubcomDataWordIndex[i] = uint8(i + 1)
		c.SubcomDataWord[i] = frame[i]
	}
	return c
}

func TestExtractCompleteFrame(t *testing.T) {
	frame := buildFrame(
		7000123.5, -1200456.25, 654321.125,
		12.5, -3.25, 0.5,
		123456.0,
		[4]float32{0.1, 0.2, 0.3, 0.4},
		0.01, -0.02, 0.03,
		654321.0,
	)
	c := columnsFromFrame(frame)
	points := Extract(c)
	require.Len(t, points, 1)

	p := points[0]
	assert.InDelta(t, 7000123.5, p.Position.X, 1e-6)
	assert.InDelta(t, -1200456.25, p.Position.Y, 1e-6)
	assert.InDelta(t, 654321.125, p.Position.Z, 1e-6)
	assert.InDelta(t, 12.5, p.Velocity.X, 1e-4)
	assert.InDelta(t, -3.25, p.Velocity.Y, 1e-4)
	assert.InDelta(t, 0.5, p.Velocity.Z, 1e-4)
	assert.InDelta(t, 123456.0, p.PVTTimestamp, 1e-6)
	assert.InDelta(t, 0.1, p.Quaternion[0], 1e-6)
	assert.InDelta(t, 0.4, p.Quaternion[3], 1e-6)
	assert.InDelta(t, 0.01, p.AngularRate.X, 1e-4)
	assert.InDelta(t, 654321.0, p.AttitudeTimestamp, 1e-6)
}

func TestExtractSkipsBrokenFrame(t *testing.T) {
	frame := buildFrame(1, 2, 3, 0, 0, 0, 0, [4]float32{}, 0, 0, 0, 0)
	c := columnsFromFrame(frame)
	// Break the run: packet 30 should carry ADWIDX 31 but carries 1 instead.
	c.SubcomDataWordIndex[30] = 1
	points := Extract(c)
	assert.Empty(t, points)
}

func TestExtractSkipsShortTrailingRun(t *testing.T) {
	frame := buildFrame(1, 2, 3, 0, 0, 0, 0, [4]float32{}, 0, 0, 0, 0)
	c := columnsFromFrame(frame)
	// Truncate to fewer than 64 packets after the ADWIDX==1 marker.
	c.HasSecondary = c.HasSecondary[:40]
	c.SubcomDataWordIndex = c.SubcomDataWordIndex[:40]
	c.SubcomDataWord = c.SubcomDataWord[:40]
	points := Extract(c)
	assert.Empty(t, points)
}

func TestExtractTwoConsecutiveFrames(t *testing.T) {
	frame := buildFrame(
		100, 200, 300,
		1, 2, 3,
		10,
		[4]float32{1, 0, 0, 0},
		0, 0, 0,
		20,
	)
	c := columnsFromFrame(frame)
	second := columnsFromFrame(frame)
	for i := range second.HasSecondary {
		c.HasSecondary = append(c.HasSecondary, second.HasSecondary[i])
		c.SubcomDataWordIndex = append(c.SubcomDataWordIndex, second.SubcomDataWordIndex[i])
		c.SubcomDataWord = append(c.SubcomDataWord, second.SubcomDataWord[i])
	}
	points := Extract(c)
	require.Len(t, points, 2)
	assert.InDelta(t, 100.0, points[0].Position.X, 1e-6)
	assert.InDelta(t, 100.0, points[1].Position.X, 1e-6)
}
