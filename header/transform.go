package header

// UserDataBound locates one packet's user-data payload within the file (or
// within a buffer), used by the driver to seek/slice without re-parsing
// headers.
type UserDataBound struct {
	Offset int
	Length int
}

// Columns is the column-oriented metadata view produced by parsing every
// packet header in a file: one slice per field, one element per packet, plus
// the parallel user-data bounds — the output contract of component C8.
//
// HasSecondary marks, per packet, whether its secondary_header_flag was set;
// every Secondary-derived field is the zero value (not a decoded 0) when
// HasSecondary[i] is false — an explicit "missing" marker rather than a
// sentinel numeric.
type Columns struct {
	// Primary header.
	PacketVersionNumber []uint8
	PacketType          []uint8
	SecondaryHeaderFlag []uint8
	PID                 []uint8
	PCAT                []uint8
	SequenceFlags       []uint8
	PacketSequenceCount []uint16
	PacketDataLength    []uint16

	HasSecondary []bool

	// Secondary header, datation + fixed ancillary data services.
	CoarseTime         []uint32
	FineTime           []float64
	Sync               []uint32
	SyncValid          []bool
	DataTakeID         []uint32
	ECCNumber          []ECCNumber
	TestMode           []TestMode
	RxChannelID        []RxChannelId
	InstrumentConfigID []uint32

	// Sub-commutated ancillary data service.
	SubcomDataWordIndex []uint8
	SubcomDataWord      []uint16

	// Counters service.
	SpacePacketCount []uint32
	PRICount         []uint32

	// Radar configuration support service.
	ErrorFlag        []bool
	BAQMode          []BaqMode
	BAQBlockLength   []uint8
	RangeDecimation  []RangeDecimation
	RxGain           []float64
	TxRampRate       []float64
	TxPulseStartFreq []float64
	TxPulseLength    []float64
	Rank             []uint8
	PRI              []float64
	SWST             []float64
	SWL              []float64
	SASSSBFlag       []SASSSBFlag
	Polarisation     []Polarisation
	TemperatureComp  []TemperatureCompensation
	// CalMode is nil for a packet where SASSSBFlag is
	// ImagingOrNoiseOperation and SignalType is Echo or Noise — the field is
	// "don't care", masked the same way upstream masks it rather
	// than carrying a misleading raw value.
	CalMode       []*CalibrationMode
	TxPulseNumber []uint8
	SignalType    []SignalType
	SwapFlag      []bool
	SwathNumber   []uint8

	// Radar sample count service.
	NumQuads []uint16

	Bounds []UserDataBound
}

// BuildColumns transposes a slice of per-packet Headers (and their user-data
// bounds, one per Header, copied as given) into the column-oriented view,
// applying the Calibration Mode masking rule.
func BuildColumns(headers []Header, bounds []UserDataBound) Columns {
	n := len(headers)
	c := Columns{
		PacketVersionNumber: make([]uint8, n),
		PacketType:          make([]uint8, n),
		SecondaryHeaderFlag: make([]uint8, n),
		PID:                 make([]uint8, n),
		PCAT:                make([]uint8, n),
		SequenceFlags:       make([]uint8, n),
		PacketSequenceCount: make([]uint16, n),
		PacketDataLength:    make([]uint16, n),

		HasSecondary: make([]bool, n),

		CoarseTime:         make([]uint32, n),
		FineTime:           make([]float64, n),
		Sync:               make([]uint32, n),
		SyncValid:          make([]bool, n),
		DataTakeID:         make([]uint32, n),
		ECCNumber:          make([]ECCNumber, n),
		TestMode:           make([]TestMode, n),
		RxChannelID:        make([]RxChannelId, n),
		InstrumentConfigID: make([]uint32, n),

		SubcomDataWordIndex: make([]uint8, n),
		SubcomDataWord:      make([]uint16, n),

		SpacePacketCount: make([]uint32, n),
		PRICount:         make([]uint32, n),

		ErrorFlag:        make([]bool, n),
		BAQMode:          make([]BaqMode, n),
		BAQBlockLength:   make([]uint8, n),
		RangeDecimation:  make([]RangeDecimation, n),
		RxGain:           make([]float64, n),
		TxRampRate:       make([]float64, n),
		TxPulseStartFreq: make([]float64, n),
		TxPulseLength:    make([]float64, n),
		Rank:             make([]uint8, n),
		PRI:              make([]float64, n),
		SWST:             make([]float64, n),
		SWL:              make([]float64, n),
		SASSSBFlag:       make([]SASSSBFlag, n),
		Polarisation:     make([]Polarisation, n),
		TemperatureComp:  make([]TemperatureCompensation, n),
		CalMode:          make([]*CalibrationMode, n),
		TxPulseNumber:    make([]uint8, n),
		SignalType:       make([]SignalType, n),
		SwapFlag:         make([]bool, n),
		SwathNumber:      make([]uint8, n),

		NumQuads: make([]uint16, n),

		Bounds: append([]UserDataBound{}, bounds...),
	}

	for i, h := range headers {
		p := h.Primary
		c.PacketVersionNumber[i] = p.PacketVersionNumber
		c.PacketType[i] = p.PacketType
		c.SecondaryHeaderFlag[i] = p.SecondaryHeaderFlag
		c.PID[i] = p.PID
		c.PCAT[i] = p.PCAT
		c.SequenceFlags[i] = p.SequenceFlags
		c.PacketSequenceCount[i] = p.PacketSequenceCount
		c.PacketDataLength[i] = p.PacketDataLength

		if h.Secondary == nil {
			continue
		}
		c.HasSecondary[i] = true
		s := h.Secondary

		c.CoarseTime[i] = s.CoarseTime
		c.FineTime[i] = s.FineTime
		c.Sync[i] = s.Sync
		c.SyncValid[i] = s.SyncValid
		c.DataTakeID[i] = s.DataTakeID
		c.ECCNumber[i] = s.ECCNumber
		c.TestMode[i] = s.TestMode
		c.RxChannelID[i] = s.RxChannelID
		c.InstrumentConfigID[i] = s.InstrumentConfigID

		c.SubcomDataWordIndex[i] = s.SubcomDataWordIndex
		c.SubcomDataWord[i] = s.SubcomDataWord

		c.SpacePacketCount[i] = s.SpacePacketCount
		c.PRICount[i] = s.PRICount

		c.ErrorFlag[i] = s.ErrorFlag != 0
		c.BAQMode[i] = s.BAQMode
		c.BAQBlockLength[i] = s.BAQBlockLength
		c.RangeDecimation[i] = s.RangeDecimation
		c.RxGain[i] = s.RxGain
		c.TxRampRate[i] = s.TxRampRate
		c.TxPulseStartFreq[i] = s.TxPulseStartFreq
		c.TxPulseLength[i] = s.TxPulseLength
		c.Rank[i] = s.Rank
		c.PRI[i] = s.PRI
		c.SWST[i] = s.SWST
		c.SWL[i] = s.SWL
		c.SASSSBFlag[i] = s.SASSSBFlag
		c.Polarisation[i] = s.Polarisation
		c.TemperatureComp[i] = s.TemperatureComp
		c.TxPulseNumber[i] = s.TxPulseNumber
		c.SignalType[i] = s.SignalType
		c.SwapFlag[i] = s.SwapFlag != 0
		c.SwathNumber[i] = s.SwathNumber

		c.NumQuads[i] = s.NumQuads

		if calModeIsDontCare(s.SASSSBFlag, s.SignalType) {
			c.CalMode[i] = nil
		} else {
			mode := s.CalMode
			c.CalMode[i] = &mode
		}
	}

	return c
}

// Slice returns the column-oriented view restricted to packets [start, end),
// used by the file façade to carve out one burst's or chunk's metadata
// without re-running BuildColumns.
func (c Columns) Slice(start, end int) Columns {
	return Columns{
		PacketVersionNumber: append([]uint8{}, c.PacketVersionNumber[start:end]...),
		PacketType:          append([]uint8{}, c.PacketType[start:end]...),
		SecondaryHeaderFlag: append([]uint8{}, c.SecondaryHeaderFlag[start:end]...),
		PID:                 append([]uint8{}, c.PID[start:end]...),
		PCAT:                append([]uint8{}, c.PCAT[start:end]...),
		SequenceFlags:       append([]uint8{}, c.SequenceFlags[start:end]...),
		PacketSequenceCount: append([]uint16{}, c.PacketSequenceCount[start:end]...),
		PacketDataLength:    append([]uint16{}, c.PacketDataLength[start:end]...),

		HasSecondary: append([]bool{}, c.HasSecondary[start:end]...),

		CoarseTime:         append([]uint32{}, c.CoarseTime[start:end]...),
		FineTime:           append([]float64{}, c.FineTime[start:end]...),
		Sync:               append([]uint32{}, c.Sync[start:end]...),
		SyncValid:          append([]bool{}, c.SyncValid[start:end]...),
		DataTakeID:         append([]uint32{}, c.DataTakeID[start:end]...),
		ECCNumber:          append([]ECCNumber{}, c.ECCNumber[start:end]...),
		TestMode:           append([]TestMode{}, c.TestMode[start:end]...),
		RxChannelID:        append([]RxChannelId{}, c.RxChannelID[start:end]...),
		InstrumentConfigID: append([]uint32{}, c.InstrumentConfigID[start:end]...),

		SubcomDataWordIndex: append([]uint8{}, c.SubcomDataWordIndex[start:end]...),
		SubcomDataWord:      append([]uint16{}, c.SubcomDataWord[start:end]...),

		SpacePacketCount: append([]uint32{}, c.SpacePacketCount[start:end]...),
		PRICount:         append([]uint32{}, c.PRICount[start:end]...),

		ErrorFlag:        append([]bool{}, c.ErrorFlag[start:end]...),
		BAQMode:          append([]BaqMode{}, c.BAQMode[start:end]...),
		BAQBlockLength:   append([]uint8{}, c.BAQBlockLength[start:end]...),
		RangeDecimation:  append([]RangeDecimation{}, c.RangeDecimation[start:end]...),
		RxGain:           append([]float64{}, c.RxGain[start:end]...),
		TxRampRate:       append([]float64{}, c.TxRampRate[start:end]...),
		TxPulseStartFreq: append([]float64{}, c.TxPulseStartFreq[start:end]...),
		TxPulseLength:    append([]float64{}, c.TxPulseLength[start:end]...),
		Rank:             append([]uint8{}, c.Rank[start:end]...),
		PRI:              append([]float64{}, c.PRI[start:end]...),
		SWST:             append([]float64{}, c.SWST[start:end]...),
		SWL:              append([]float64{}, c.SWL[start:end]...),
		SASSSBFlag:       append([]SASSSBFlag{}, c.SASSSBFlag[start:end]...),
		Polarisation:     append([]Polarisation{}, c.Polarisation[start:end]...),
		TemperatureComp:  append([]TemperatureCompensation{}, c.TemperatureComp[start:end]...),
		CalMode:          append([]*CalibrationMode{}, c.CalMode[start:end]...),
		TxPulseNumber:    append([]uint8{}, c.TxPulseNumber[start:end]...),
		SignalType:       append([]SignalType{}, c.SignalType[start:end]...),
		SwapFlag:         append([]bool{}, c.SwapFlag[start:end]...),
		SwathNumber:      append([]uint8{}, c.SwathNumber[start:end]...),

		NumQuads: append([]uint16{}, c.NumQuads[start:end]...),

		Bounds: append([]UserDataBound{}, c.Bounds[start:end]...),
	}
}

// calModeIsDontCare reports whether Calibration Mode carries no meaningful
// value for this packet: SAS SSB Flag indicates normal
// imaging/noise operation (not calibration) and the signal is Echo or Noise.
func calModeIsDontCare(flag SASSSBFlag, sig SignalType) bool {
	return flag == ImagingOrNoiseOperation && sig.IsEchoOrNoise()
}
