// Package ephemeris reassembles the sub-commutated satellite ephemeris and
// attitude data scattered one word per packet across the ADWIDX/ADW fields
// of the secondary header: a full frame sweeps 64 consecutive packets
// whose word-index column counts 1..64.
package ephemeris

import (
	"encoding/binary"
	"math"

	"github.com/golang/geo/r3"

	"github.com/mewkiz/s1l0/header"
)

// wordsPerFrame is the length of one complete sub-commutated frame: ADWIDX
// runs 1..64 across 64 consecutive packets.
const wordsPerFrame = 64

// Point is one fully reassembled ephemeris/attitude sample, decoded from a
// single 64-word sub-commutation frame.
type Point struct {
	Position          r3.Vector
	Velocity          r3.Vector
	PVTTimestamp      float64
	Quaternion        [4]float32
	AngularRate       r3.Vector
	AttitudeTimestamp float64
}

// Extract walks the decoded packet-metadata columns and reassembles every
// complete 64-word sub-commutation frame into a Point, in file order. A
// candidate frame whose index column does not run 1..64 over the next 64
// packets is skipped, matching the Python reference's
// `all(... == list(range(1, 65)))` check.
func Extract(c header.Columns) []Point {
	n := len(c.SubcomDataWordIndex)
	var points []Point
	for i := 0; i < n; i++ {
		if !c.HasSecondary[i] || c.SubcomDataWordIndex[i] != 1 {
			continue
		}
		if i+wordsPerFrame > n {
			continue
		}
		if !isCompleteFrame(c, i) {
			continue
		}
		points = append(points, decodeFrame(c.SubcomDataWord[i : i+wordsPerFrame]))
	}
	return points
}

// isCompleteFrame reports whether the wordsPerFrame packets starting at i
// carry ADWIDX 1..64 in order, with a secondary header present throughout.
func isCompleteFrame(c header.Columns, i int) bool {
	for j := 0; j < wordsPerFrame; j++ {
		if !c.HasSecondary[i+j] || c.SubcomDataWordIndex[i+j] != uint8(j+1) {
			return false
		}
	}
	return true
}

// decodeFrame repacks one 64-word big-endian frame into a Point, following
// the fixed word layout of the sub-commutated ancillary data service:
// words 0-3/4-7/8-11 -> X/Y/Z position (float64), 12-13/14-15/16-17 -> X/Y/Z
// velocity (float32), 18-21 -> PVT timestamp, 22-23/24-25/26-27/28-29 ->
// Q0-Q3, 30-31/32-33/34-35 -> angular rates, 36-39 -> attitude timestamp.
func decodeFrame(d []uint16) Point {
	return Point{
		Position: r3.Vector{
			X: beFloat64(d[0], d[1], d[2], d[3]),
			Y: beFloat64(d[4], d[5], d[6], d[7]),
			Z: beFloat64(d[8], d[9], d[10], d[11]),
		},
		Velocity: r3.Vector{
			X: float64(beFloat32(d[12], d[13])),
			Y: float64(beFloat32(d[14], d[15])),
			Z: float64(beFloat32(d[16], d[17])),
		},
		PVTTimestamp: fixedPointTimestamp(d[18], d[19], d[20], d[21]),
		Quaternion: [4]float32{
			beFloat32(d[22], d[23]),
			beFloat32(d[24], d[25]),
			beFloat32(d[26], d[27]),
			beFloat32(d[28], d[29]),
		},
		AngularRate: r3.Vector{
			X: float64(beFloat32(d[30], d[31])),
			Y: float64(beFloat32(d[32], d[33])),
			Z: float64(beFloat32(d[34], d[35])),
		},
		AttitudeTimestamp: fixedPointTimestamp(d[36], d[37], d[38], d[39]),
	}
}

// beFloat64 packs four 16-bit words, big-endian, into an IEEE-754 binary64.
func beFloat64(w0, w1, w2, w3 uint16) float64 {
	var b [8]byte
	binary.BigEndian.PutUint16(b[0:2], w0)
	binary.BigEndian.PutUint16(b[2:4], w1)
	binary.BigEndian.PutUint16(b[4:6], w2)
	binary.BigEndian.PutUint16(b[6:8], w3)
	return math.Float64frombits(binary.BigEndian.Uint64(b[:]))
}

// beFloat32 packs two 16-bit words, big-endian, into an IEEE-754 binary32.
func beFloat32(w0, w1 uint16) float32 {
	var b [4]byte
	binary.BigEndian.PutUint16(b[0:2], w0)
	binary.BigEndian.PutUint16(b[2:4], w1)
	return math.Float32frombits(binary.BigEndian.Uint32(b[:]))
}

// fixedPointTimestamp combines four 16-bit words into the POD/attitude
// timestamp fixed-point representation: w0*2^24 + w1*2^8 + w2*2^-8 + w3*2^-24.
func fixedPointTimestamp(w0, w1, w2, w3 uint16) float64 {
	return float64(w0)*16777216 + float64(w1)*256 + float64(w2)/256 + float64(w3)/16777216
}
