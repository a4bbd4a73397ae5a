package header

import "fmt"

// fRefHz is F_REF, the reference frequency used to scale several decoded
// fields (range decimation sample rate, TXPRR, TXPSF). Source: S1-IF-ASD-PL-0007.
const fRefHz = 37.53472224e6

// ECCNumber is the 8-bit ECC number / measurement mode field.
type ECCNumber uint8

// eccLabels holds the S1-IF-ASD-PL-0007 measurement-mode table (pg. 19-20).
var eccLabels = map[ECCNumber]string{
	0: "contingency", 1: "Stripmap 1", 2: "Stripmap 2", 3: "Stripmap 3",
	4: "Stripmap 4", 5: "Stripmap 5-N", 6: "Stripmap 6", 7: "contingency",
	8: "Interferometric Wide Swath", 9: "Wave Mode", 10: "Stripmap 5-S",
	11: "Stripmap 1 w/o interl.Cal", 12: "Stripmap 2 w/o interl.Cal",
	13: "Stripmap 3 w/o interl.Cal", 14: "Stripmap 4 w/o interl.Cal",
	15: "RFC mode", 16: "Test Mode Oper / Test Mode Bypass",
	17: "Elevation Notch S3", 18: "Azimuth Notch S1", 19: "Azimuth Notch S2",
	20: "Azimuth Notch S3", 21: "Azimuth Notch S4", 22: "Azimuth Notch S5-N",
	23: "Azimuth Notch S5-S", 24: "Azimuth Notch S6",
	25: "Stripmap 5-N w/o interl.Cal", 26: "Stripmap 5-S w/o interl.Cal",
	27: "Stripmap 6 w/o interl.Cal", 28: "contingency", 29: "contingency",
	30: "contingency", 31: "Elevation Notch S3 w/o interl.Cal",
	32: "Extra Wide Swath", 33: "Azimuth Notch S1 w/o interl.Cal",
	34: "Azimuth Notch S3 w/o interl.Cal", 35: "Azimuth Notch S6 w/o interl.Cal",
	36: "contingency", 37: "Noise Characterisation S1", 38: "Noise Characterisation S2",
	39: "Noise Characterisation S3", 40: "Noise Characterisation S4",
	41: "Noise Characterisation S5-N", 42: "Noise Characterisation S5-S",
	43: "Noise Characterisation S6", 44: "Noise Characterisation EWS",
	45: "Noise Characterisation IWS", 46: "Noise Characterisation Wave",
	47: "contingency",
}

func (e ECCNumber) String() string {
	if s, ok := eccLabels[e]; ok {
		return s
	}
	return fmt.Sprintf("ECCNumber(%d)", uint8(e))
}

// RxChannelId is the 4-bit receive channel selector; only codes 0 and 1
// have names.
type RxChannelId uint8

const (
	RxVPolChannel RxChannelId = 0
	RxHPolChannel RxChannelId = 1
)

func (r RxChannelId) String() string {
	switch r {
	case RxVPolChannel:
		return "RxV-Pol Channel"
	case RxHPolChannel:
		return "RxH-Pol Channel"
	default:
		return fmt.Sprintf("RxChannelId(%d)", uint8(r))
	}
}

// TestMode is the 3-bit TSTMOD field. Codes 1-3 are reserved/invalid; values
// other than the five below are carried as-is and stringify generically
// rather than being rejected, since header parsing must never fail on an
// out-of-catalogue enum code.
type TestMode uint8

const (
	TestModeDefault           TestMode = 0
	TestModeContingencyOper   TestMode = 4
	TestModeContingencyBypass TestMode = 5
	TestModeOper              TestMode = 6
	TestModeBypass            TestMode = 7
)

var testModeLabels = map[TestMode]string{
	TestModeDefault:           "Default (no Test Mode)",
	TestModeContingencyOper:   "contingency (ground testing, RxM operational)",
	TestModeContingencyBypass: "contingency (ground testing, RxM bypassed)",
	TestModeOper:              "Test Mode Oper",
	TestModeBypass:            "Test Mode Bypass",
}

func (t TestMode) String() string {
	if s, ok := testModeLabels[t]; ok {
		return s
	}
	return fmt.Sprintf("TestMode(%d)", uint8(t))
}

// BaqMode is the 5-bit BAQ Mode field, which selects the payload codec.
type BaqMode uint8

const (
	BaqModeBypass  BaqMode = 0
	Baq3Bit        BaqMode = 3
	Baq4Bit        BaqMode = 4
	Baq5Bit        BaqMode = 5
	FDBAQMode0     BaqMode = 12
	FDBAQMode1     BaqMode = 13
	FDBAQMode2     BaqMode = 14
)

var baqModeLabels = map[BaqMode]string{
	BaqModeBypass: "BYPASS MODE",
	Baq3Bit:       "BAQ 3-BIT MODE",
	Baq4Bit:       "BAQ 4-BIT MODE",
	Baq5Bit:       "BAQ 5-BIT MODE",
	FDBAQMode0:    "FDBAQ MODE 0",
	FDBAQMode1:    "FDBAQ MODE 1",
	FDBAQMode2:    "FDBAQ MODE 2",
}

func (b BaqMode) String() string {
	if s, ok := baqModeLabels[b]; ok {
		return s
	}
	return fmt.Sprintf("BaqMode(%d)", uint8(b))
}

// IsFDBAQ reports whether b selects one of the three FDBAQ variants, the
// condition a driver uses to route payload bytes to the FDBAQ decoder
// instead of the Bypass decoder.
func (b BaqMode) IsFDBAQ() bool {
	return b == FDBAQMode0 || b == FDBAQMode1 || b == FDBAQMode2
}

// IsBypass reports whether b is the Bypass (Type A/B) codec.
func (b BaqMode) IsBypass() bool {
	return b == BaqModeBypass
}

// RangeDecimation is the 8-bit RGDEC field, which also determines the
// receiver's sample rate, filter bandwidth and length, and decimation ratio.
type RangeDecimation uint8

const (
	RGDEC0  RangeDecimation = 0
	RGDEC1  RangeDecimation = 1
	RGDEC3  RangeDecimation = 3
	RGDEC4  RangeDecimation = 4
	RGDEC5  RangeDecimation = 5
	RGDEC6  RangeDecimation = 6
	RGDEC7  RangeDecimation = 7
	RGDEC8  RangeDecimation = 8
	RGDEC9  RangeDecimation = 9
	RGDEC10 RangeDecimation = 10
	RGDEC11 RangeDecimation = 11
)

func (r RangeDecimation) String() string {
	return fmt.Sprintf("RGDEC %d", uint8(r))
}

type decimationRatio struct{ L, M int }

var rangeDecDecimationRatios = map[RangeDecimation]decimationRatio{
	RGDEC0: {3, 4}, RGDEC1: {2, 3}, RGDEC3: {5, 9}, RGDEC4: {4, 9},
	RGDEC5: {3, 8}, RGDEC6: {1, 3}, RGDEC7: {1, 6}, RGDEC8: {3, 7},
	RGDEC9: {5, 16}, RGDEC10: {3, 26}, RGDEC11: {4, 11},
}

var rangeDecFilterBandwidthHz = map[RangeDecimation]float64{
	RGDEC0: 100e6, RGDEC1: 87.71e6, RGDEC3: 74.25e6, RGDEC4: 59.44e6,
	RGDEC5: 50.62e6, RGDEC6: 44.89e6, RGDEC7: 22.2e6, RGDEC8: 56.59e6,
	RGDEC9: 42.86e6, RGDEC10: 15.1e6, RGDEC11: 48.35e6,
}

var rangeDecFilterLengthSamples = map[RangeDecimation]int{
	RGDEC0: 28, RGDEC1: 28, RGDEC3: 32, RGDEC4: 40, RGDEC5: 48, RGDEC6: 52,
	RGDEC7: 92, RGDEC8: 36, RGDEC9: 68, RGDEC10: 120, RGDEC11: 44,
}

// SampleRateHz returns the receiver sample frequency after decimation.
func (r RangeDecimation) SampleRateHz() float64 {
	ratio := rangeDecDecimationRatios[r]
	return (float64(ratio.L) / float64(ratio.M)) * 4 * fRefHz
}

// FilterBandwidthHz returns the decimation filter's bandwidth in Hz.
func (r RangeDecimation) FilterBandwidthHz() float64 {
	return rangeDecFilterBandwidthHz[r]
}

// FilterLengthSamples returns the decimation filter length NF in samples.
func (r RangeDecimation) FilterLengthSamples() int {
	return rangeDecFilterLengthSamples[r]
}

// DecimationRatio returns the L/M decimation ratio; sample rate = (L/M) *
// (4 * F_REF).
func (r RangeDecimation) DecimationRatio() (l, m int) {
	ratio := rangeDecDecimationRatios[r]
	return ratio.L, ratio.M
}

// SASSSBFlag is the 1-bit flag distinguishing calibration packets from
// imaging/noise packets; it also gates which fields of the secondary header
// are meaningful ("don't care" masking).
type SASSSBFlag uint8

const (
	ImagingOrNoiseOperation SASSSBFlag = 0
	Calibration             SASSSBFlag = 1
)

func (s SASSSBFlag) String() string {
	if s == Calibration {
		return "Calibration"
	}
	return "Imaging or Noise Operation"
}

// Polarisation is the 3-bit POLcode field.
type Polarisation uint8

const (
	PolTxH     Polarisation = 0
	PolTxHRxH  Polarisation = 1
	PolTxHRxV  Polarisation = 2
	PolTxHRxVH Polarisation = 3
	PolTxV     Polarisation = 4
	PolTxVRxH  Polarisation = 5
	PolTxVRxV  Polarisation = 6
	PolTxVRxVH Polarisation = 7
)

var polarisationLabels = map[Polarisation]string{
	PolTxH: "Tx H Only", PolTxHRxH: "Tx H, Rx H", PolTxHRxV: "Tx H, Rx V",
	PolTxHRxVH: "Tx H, Rx V+H", PolTxV: "Tx V Only", PolTxVRxH: "Tx V, Rx H",
	PolTxVRxV: "Tx V, Rx V", PolTxVRxVH: "Tx V, Rx V+H",
}

func (p Polarisation) String() string {
	if s, ok := polarisationLabels[p]; ok {
		return s
	}
	return fmt.Sprintf("Polarisation(%d)", uint8(p))
}

// TemperatureCompensation is the 2-bit TCMPcode field. FE = (antenna) front
// end, TA = tile amplifier.
type TemperatureCompensation uint8

const (
	FEOffTAOff TemperatureCompensation = 0
	FEOnTAOff  TemperatureCompensation = 1
	FEOffTAOn  TemperatureCompensation = 2
	FEOnTAOn   TemperatureCompensation = 3
)

var tempCompLabels = map[TemperatureCompensation]string{
	FEOffTAOff: "FE: OFF, TA: OFF", FEOnTAOff: "FE: ON, TA: OFF",
	FEOffTAOn: "FE: OFF, TA: ON", FEOnTAOn: "FE: ON, TA: ON",
}

func (t TemperatureCompensation) String() string {
	if s, ok := tempCompLabels[t]; ok {
		return s
	}
	return fmt.Sprintf("TemperatureCompensation(%d)", uint8(t))
}

// SasTestMode is the 1-bit SAS Test Mode field.
type SasTestMode uint8

const (
	SasTestModeActive      SasTestMode = 0
	NormalCalibrationMode  SasTestMode = 1
)

func (s SasTestMode) String() string {
	if s == SasTestModeActive {
		return "SAS Test Mode active"
	}
	return "Normal calibration mode"
}

// CalType is the 3-bit CALTYPcode field, meaningful only when
// SASSSBFlag == Calibration.
type CalType uint8

const (
	TxCal              CalType = 0
	RxCal              CalType = 1
	EPDNCal            CalType = 2
	TxCalIsoOrTACal    CalType = 3
	APDNCalS1ABOnly    CalType = 4
	TxHCalIsoS1ABOnly  CalType = 7
)

var calTypeLabels = map[CalType]string{
	TxCal: "Tx Cal", RxCal: "Rx Cal", EPDNCal: "EPDN Cal",
	TxCalIsoOrTACal: "Tx Cal Iso (S-1A/B only); TA Cal (S-1C/D only)",
	APDNCalS1ABOnly: "APDN Cal (S-1A/B only)",
	TxHCalIsoS1ABOnly: "TxH Cal Iso (S-1A/B only)",
}

func (c CalType) String() string {
	if s, ok := calTypeLabels[c]; ok {
		return s
	}
	return fmt.Sprintf("CalType(%d)", uint8(c))
}

// CalibrationMode is the 2-bit CALMODcode field.
type CalibrationMode uint8

const (
	InterleavedInternal        CalibrationMode = 0
	InternalPreamblePostamble  CalibrationMode = 1
	PhaseCodedCharPCC32        CalibrationMode = 2
	PhaseCodedCharRF672        CalibrationMode = 3
)

var calibrationModeLabels = map[CalibrationMode]string{
	InterleavedInternal:       "Interleaved Internal Calibration (PCC2)",
	InternalPreamblePostamble: "Internal Calibration in Preamble/Postamble (PCC2)",
	PhaseCodedCharPCC32:       "Phase Coded Characterisation (PCC32)",
	PhaseCodedCharRF672:       "Phase Coded Characterisation (RF672)",
}

func (c CalibrationMode) String() string {
	if s, ok := calibrationModeLabels[c]; ok {
		return s
	}
	return fmt.Sprintf("CalibrationMode(%d)", uint8(c))
}

// SignalType is the 4-bit SIGTYPcode field. Codes 2-7 and 13-14 are reserved.
type SignalType uint8

const (
	SignalEcho             SignalType = 0
	SignalNoise            SignalType = 1
	SignalTxCal            SignalType = 8
	SignalRxCal            SignalType = 9
	SignalEPDNCal          SignalType = 10
	SignalTACalOrTxCalIso  SignalType = 11
	SignalAPDNCalS1ABOnly  SignalType = 12
	SignalTxHCalIsoS1ABOnly SignalType = 15
)

var signalTypeLabels = map[SignalType]string{
	SignalEcho: "Echo", SignalNoise: "Noise", SignalTxCal: "Tx Cal",
	SignalRxCal: "Rx Cal", SignalEPDNCal: "EPDN Cal",
	SignalTACalOrTxCalIso: "TA Cal (S-1A/B only); Tx Cal Iso (S-1C/D only)",
	SignalAPDNCalS1ABOnly: "APDN Cal (S-1A/B only)",
	SignalTxHCalIsoS1ABOnly: "TxH Cal Iso (S-1A/B only)",
}

func (s SignalType) String() string {
	if l, ok := signalTypeLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("SignalType(%d)", uint8(s))
}

// IsEchoOrNoise reports whether s is Echo or Noise, the condition that
// (combined with SASSSBFlag == 0) marks the Calibration Mode field as
// "don't care".
func (s SignalType) IsEchoOrNoise() bool {
	return s == SignalEcho || s == SignalNoise
}
