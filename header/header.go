// Package header decodes the CCSDS primary header and ESA-specific secondary
// header of a Sentinel-1 Level-0 space packet into a typed record, and
// locates each packet's user-data byte range within the file (component C8).
package header

import (
	"encoding/binary"
	"fmt"

	"github.com/mewkiz/s1l0/internal/decodeerr"
)

// PrimaryHeaderSize is the fixed size of the CCSDS primary header, pg.13 of
// S1-IF-ASD-PL-0007.
const PrimaryHeaderSize = 6

// SecondaryHeaderSize is the fixed size of the Sentinel-1 secondary header,
// pg.14 of S1-IF-ASD-PL-0007.
const SecondaryHeaderSize = 62

// expectedSync is the fixed sync marker secondary headers must carry;
// a mismatch is logged but does not abort decoding.
const expectedSync = 0x352EF853

// FRefHz re-exports fRefHz for callers that want to recompute a scaled field
// themselves; it is the same reference frequency used throughout this
// package.
const FRefHz = fRefHz

// PrimaryHeader holds the six CCSDS primary header fields, present on every
// packet regardless of secondary_header_flag.
type PrimaryHeader struct {
	PacketVersionNumber uint8
	PacketType          uint8
	SecondaryHeaderFlag uint8
	PID                 uint8
	PCAT                uint8
	SequenceFlags       uint8
	PacketSequenceCount uint16
	PacketDataLength    uint16 // stored value already +1, i.e. the true length
}

// LengthValid reports whether PacketDataLength satisfies the CCSDS
// multiple-of-4 invariant for total packet length (6 + PacketDataLength).
func (h PrimaryHeader) LengthValid() bool {
	return (uint32(h.PacketDataLength)+6)%4 == 0
}

// ParsePrimaryHeader decodes exactly PrimaryHeaderSize bytes into a
// PrimaryHeader.
func ParsePrimaryHeader(b []byte) (PrimaryHeader, error) {
	if len(b) != PrimaryHeaderSize {
		return PrimaryHeader{}, decodeerr.New(decodeerr.Truncation,
			fmt.Errorf("primary header must be %d bytes, got %d", PrimaryHeaderSize, len(b)))
	}
	w0 := binary.BigEndian.Uint16(b[0:2])
	w1 := binary.BigEndian.Uint16(b[2:4])
	w2 := binary.BigEndian.Uint16(b[4:6])

	return PrimaryHeader{
		PacketVersionNumber: uint8(w0 >> 13),
		PacketType:          uint8((w0 >> 12) & 0x01),
		SecondaryHeaderFlag: uint8((w0 >> 11) & 0x01),
		PID:                 uint8((w0 >> 4) & 0x7F),
		PCAT:                uint8(w0 & 0xF),
		SequenceFlags:       uint8(w1 >> 14),
		PacketSequenceCount: w1 & 0x3FFF,
		PacketDataLength:    w2 + 1,
	}, nil
}

// SecondaryHeader holds the decoded ESA-specific secondary header fields.
//
// ElevationBeamAddress, AzimuthBeamAddress, SASTestMode, CalTypeField and
// CalibrationBeamAddress are always nil: the sas_ssb_message occupying bytes
// 54-55 is a conditional sub-format this decoder does not interpret,
// matching upstream precedent.
type SecondaryHeader struct {
	CoarseTime             uint32
	FineTime               float64
	Sync                   uint32
	DataTakeID             uint32
	ECCNumber              ECCNumber
	TestMode               TestMode
	RxChannelID            RxChannelId
	InstrumentConfigID     uint32
	SubcomDataWordIndex    uint8
	SubcomDataWord         uint16
	SpacePacketCount       uint32
	PRICount               uint32
	ErrorFlag              uint8
	BAQMode                BaqMode
	BAQBlockLength         uint8
	RangeDecimation        RangeDecimation
	RxGain                 float64
	TxRampRate             float64
	TxPulseStartFreq       float64
	TxPulseLength          float64
	Rank                   uint8
	PRI                    float64
	SWST                   float64
	SWL                    float64
	SASSSBFlag             SASSSBFlag
	Polarisation           Polarisation
	TemperatureComp        TemperatureCompensation
	ElevationBeamAddress   *uint16
	AzimuthBeamAddress     *uint16
	SASTestMode            *SasTestMode
	CalTypeField           *CalType
	CalibrationBeamAddress *uint16
	CalMode                CalibrationMode
	TxPulseNumber          uint8
	SignalType             SignalType
	SwapFlag               uint8
	SwathNumber            uint8
	NumQuads               uint16

	SyncValid bool // false when Sync != expectedSync; non-fatal, logged by the caller
}

// ParseSecondaryHeader decodes exactly SecondaryHeaderSize bytes into a
// SecondaryHeader.
func ParseSecondaryHeader(b []byte) (SecondaryHeader, error) {
	if len(b) != SecondaryHeaderSize {
		return SecondaryHeader{}, decodeerr.New(decodeerr.Truncation,
			fmt.Errorf("secondary header must be %d bytes, got %d", SecondaryHeaderSize, len(b)))
	}

	var h SecondaryHeader

	// Datation service.
	h.CoarseTime = binary.BigEndian.Uint32(b[0:4])
	h.FineTime = (float64(binary.BigEndian.Uint16(b[4:6])) + 0.5) * twoPow(-16)

	// Fixed ancillary data field.
	h.Sync = binary.BigEndian.Uint32(b[6:10])
	h.SyncValid = h.Sync == expectedSync
	h.DataTakeID = binary.BigEndian.Uint32(b[10:14])
	h.ECCNumber = ECCNumber(b[14])
	h.TestMode = TestMode((b[15] >> 4) & 0x07)
	h.RxChannelID = RxChannelId(b[15] & 0x0F)
	h.InstrumentConfigID = binary.BigEndian.Uint32(b[16:20])

	// Sub-commutated ancillary data service.
	h.SubcomDataWordIndex = b[20]
	h.SubcomDataWord = binary.BigEndian.Uint16(b[21:23])

	// Counters service.
	h.SpacePacketCount = binary.BigEndian.Uint32(b[23:27])
	h.PRICount = binary.BigEndian.Uint32(b[27:31])

	// Radar configuration support service.
	h.ErrorFlag = b[31] >> 7
	h.BAQMode = BaqMode(b[31] & 0x1F)
	h.BAQBlockLength = b[32]
	h.RangeDecimation = RangeDecimation(b[34])
	h.RxGain = float64(b[35]) * -0.5

	tmp16 := binary.BigEndian.Uint16(b[36:38])
	txprrSign := signFromBit15(tmp16)
	h.TxRampRate = txprrSign * float64(tmp16&0x7FFF) * fRefHz * fRefHz / twoPow(21)

	tmp16 = binary.BigEndian.Uint16(b[38:40])
	txpsfAdditive := h.TxRampRate / (4 * fRefHz)
	txpsfSign := signFromBit15(tmp16)
	h.TxPulseStartFreq = txpsfAdditive + txpsfSign*float64(tmp16&0x7FFF)*fRefHz/twoPow(14)

	h.TxPulseLength = float64(uint24(b[40:43])) / fRefHz

	h.Rank = b[43] & 0x1F

	h.PRI = float64(uint24(b[44:47])) / fRefHz
	h.SWST = float64(uint24(b[47:50])) / fRefHz
	h.SWL = float64(uint24(b[50:53])) / fRefHz

	h.SASSSBFlag = SASSSBFlag(b[53] >> 7)
	h.Polarisation = Polarisation((b[53] >> 4) & 0x07)
	h.TemperatureComp = TemperatureCompensation((b[53] >> 2) & 0x03)

	// Bytes 54-55 (sas_ssb_message): left undecoded, conditional sub-format.

	h.CalMode = CalibrationMode(b[56] >> 6)
	h.TxPulseNumber = b[56] & 0x1F

	h.SignalType = SignalType(b[57] >> 4)
	h.SwapFlag = b[57] & 0x01

	h.SwathNumber = b[58]

	h.NumQuads = binary.BigEndian.Uint16(b[59:61])

	return h, nil
}

func signFromBit15(v uint16) float64 {
	if v>>15 == 0 {
		return -1
	}
	return 1
}

func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func twoPow(n int) float64 {
	if n >= 0 {
		v := 1.0
		for i := 0; i < n; i++ {
			v *= 2
		}
		return v
	}
	v := 1.0
	for i := 0; i < -n; i++ {
		v /= 2
	}
	return v
}

// Header is one packet's fully decoded header, component C8's per-packet
// output record. Secondary is nil when Primary.SecondaryHeaderFlag
// is 0 — an explicit "missing" marker rather than a zero-valued struct.
type Header struct {
	Primary   PrimaryHeader
	Secondary *SecondaryHeader
}

// ParsePacketHeader decodes one packet's header starting at the beginning of
// data, returning the decoded Header and the byte range of its user data
// (relative to the start of data, not the file). The primary header is
// always present; the secondary header is parsed only when
// Primary.SecondaryHeaderFlag is set.
func ParsePacketHeader(data []byte) (h Header, userDataOffset, userDataLen int, err error) {
	if len(data) < PrimaryHeaderSize {
		return Header{}, 0, 0, decodeerr.New(decodeerr.Truncation,
			fmt.Errorf("need %d bytes for primary header, have %d", PrimaryHeaderSize, len(data)))
	}
	primary, err := ParsePrimaryHeader(data[:PrimaryHeaderSize])
	if err != nil {
		return Header{}, 0, 0, err
	}
	h.Primary = primary

	if primary.SecondaryHeaderFlag == 0 {
		return h, PrimaryHeaderSize, int(primary.PacketDataLength), nil
	}

	secStart := PrimaryHeaderSize
	secEnd := secStart + SecondaryHeaderSize
	if len(data) < secEnd {
		return Header{}, 0, 0, decodeerr.At(decodeerr.Truncation, int64(secStart),
			fmt.Errorf("need %d bytes for secondary header, have %d", SecondaryHeaderSize, len(data)-secStart))
	}
	secondary, err := ParseSecondaryHeader(data[secStart:secEnd])
	if err != nil {
		return Header{}, 0, 0, err
	}
	h.Secondary = &secondary

	userDataLen = int(primary.PacketDataLength) - SecondaryHeaderSize
	if userDataLen < 0 {
		return Header{}, 0, 0, decodeerr.New(decodeerr.CorruptValue,
			fmt.Errorf("packet_data_length %d shorter than secondary header", primary.PacketDataLength))
	}
	return h, secEnd, userDataLen, nil
}

// PacketSize returns the total on-wire size of the packet (primary header +
// packet data field), the amount of data a caller must have buffered or
// seek past to reach the next packet.
func (h Header) PacketSize() int {
	return PrimaryHeaderSize + int(h.Primary.PacketDataLength)
}
