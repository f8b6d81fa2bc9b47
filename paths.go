package fluxer

import "strings"

// WritePath builds the path and query string of a write request.
//
// Format: /write?db=<db> with &precision=<p> appended when a precision
// is given. The database name is embedded as-is apart from space
// escaping.
func WritePath(db string, precision Precision) string {
	p := "/write?db=" + db
	if precision != PrecisionDefault {
		p += "&precision=" + string(precision)
	}
	return escapeSpaces(p)
}

// QueryPath builds the path and query string of a read request.
//
// Format: /query?q=<q>, or /query?db=<db>&q=<q> when a database is
// given. Parameter order is fixed; byte-exact paths matter to callers
// replaying captured traffic.
func QueryPath(db, q string) string {
	if db == "" {
		return escapeSpaces("/query?q=" + q)
	}
	return escapeSpaces("/query?db=" + db + "&q=" + q)
}

// QueryPathEpochMS builds a read request path asking the server to
// render timestamps as millisecond epochs.
//
// Format: /query?epoch=ms&db=<db>&q=<q>.
func QueryPathEpochMS(db, q string) string {
	return escapeSpaces("/query?epoch=ms&db=" + db + "&q=" + q)
}

// escapeSpaces percent-encodes every literal space in the assembled
// path and touches nothing else. Queries are SQL-ish text where spaces
// are the common case; all other reserved characters ('&', '=', '%',
// quotes) pass through and remain the caller's responsibility.
func escapeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "%20")
}
