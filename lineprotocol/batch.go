package lineprotocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is one batch record: measurement, tags, fields and a timestamp.
//
// Unlike single-line writes, a batch record always carries its
// timestamp. The timestamp unit is the caller's choice and must match
// the precision parameter of the write call that submits the batch.
type Point struct {
	Measurement string
	Tags        []Tag
	Fields      []Field
	Timestamp   int64
}

// NewPoint builds a Point from tag and field maps.
//
// Tags and fields are sorted by key for deterministic output. Field
// values follow the FieldsFromMap type rules, including numeric
// coercion of string values.
func NewPoint(measurement string, tags map[string]string, fields map[string]any, timestamp int64) (Point, error) {
	fs, err := FieldsFromMap(fields)
	if err != nil {
		return Point{}, fmt.Errorf("measurement %q: %w", measurement, err)
	}
	return Point{
		Measurement: measurement,
		Tags:        TagsFromMap(tags),
		Fields:      fs,
		Timestamp:   timestamp,
	}, nil
}

// Batch joins the records of points into a single write payload.
//
// Records are separated by "\n" with no trailing newline. An empty
// input produces an empty payload and no error; callers should treat
// that as a no-op rather than submitting it.
//
// Returns:
//   - string: The joined payload
//   - error: The first record error, identified by point index
func Batch(points []Point) (string, error) {
	if len(points) == 0 {
		return "", nil
	}

	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte('\n')
		}
		if err := writeLine(&b, p.Measurement, p.Tags, p.Fields); err != nil {
			return "", fmt.Errorf("point %d: %w", i, err)
		}
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(p.Timestamp, 10))
	}
	return b.String(), nil
}
