package header

import (
	"time"

	"github.com/lestrrat-go/strftime"
)

// ansEpoch is the ASN.1/CCSDS Unsegmented Time Code epoch Sentinel-1 ground
// segment tooling references CoarseTime/FineTime against: 2000-01-01T00:00:00Z.
var ansEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Time combines a packet's CoarseTime and FineTime fields into an absolute
// UTC time, for display and diagnostics only — no decode operation depends
// on it.
func Time(coarseTime uint32, fineTime float64) time.Time {
	return ansEpoch.Add(time.Duration(coarseTime)*time.Second + time.Duration(fineTime*float64(time.Second)))
}

// FormatTime renders a packet's datation fields using a strftime-style
// layout string, for CLI output and log lines where Go's reference-time
// format reads awkwardly against an ESA document's own time conventions.
func FormatTime(layout string, coarseTime uint32, fineTime float64) (string, error) {
	return strftime.Format(layout, Time(coarseTime, fineTime))
}
