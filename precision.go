package fluxer

import "time"

// Precision is the unit of timestamp tokens in a write payload. It is
// sent as the precision query parameter so the server interprets the
// tokens correctly.
//
// The zero value omits the parameter; the server then assumes
// nanoseconds.
type Precision string

const (
	PrecisionDefault     Precision = ""
	PrecisionNanosecond  Precision = "ns"
	PrecisionMicrosecond Precision = "us"
	PrecisionMillisecond Precision = "ms"
	PrecisionSecond      Precision = "s"
)

// Convert renders t as a timestamp token in the precision's unit.
//
// Stamping points with Convert keeps the token unit and the precision
// parameter of the surrounding write in sync; raw int64 timestamps
// bypass this and are the caller's responsibility.
func (p Precision) Convert(t time.Time) int64 {
	switch p {
	case PrecisionMicrosecond:
		return t.UnixMicro()
	case PrecisionMillisecond:
		return t.UnixMilli()
	case PrecisionSecond:
		return t.Unix()
	default:
		return t.UnixNano()
	}
}
