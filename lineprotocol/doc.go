// Package lineprotocol encodes measurement data as InfluxDB line protocol.
//
// A line protocol record has the form:
//
//	measurement[,tag=value,...] field=value[,field=value...] [timestamp]
//
// Integer field values carry a trailing "i" marker so the database stores
// them as integers; floats are rendered with an explicit decimal point so
// the two types are never ambiguous on the wire:
//
//	temperature value=21.5        (float)
//	cycle_count value=1042i       (integer)
//
// # Usage
//
//	line, err := lineprotocol.Line("climate",
//	    []lineprotocol.Tag{{Key: "room", Value: "kitchen"}},
//	    []lineprotocol.Field{{Key: "temp", Value: lineprotocol.FloatValue(21.5)}},
//	)
//
// Multiple records are combined with Batch, which joins them with newlines
// into a single write payload.
//
// # Ordering
//
// Tags and fields appear on the wire in the order supplied by the caller.
// The map-based helpers (TagsFromMap, FieldsFromMap, NewPoint) sort keys
// so their output is deterministic. The database itself does not care
// about ordering; it only matters to byte-exact comparisons.
//
// # Escaping
//
// Measurement names, tag keys/values and field keys are emitted as raw
// text. Callers must not embed spaces, commas or equals signs in them;
// the package does not escape on their behalf.
package lineprotocol
