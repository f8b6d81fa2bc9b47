package lineprotocol

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Tag is one indexed key=value pair attached to a record.
type Tag struct {
	Key   string
	Value string
}

// Field is one measured key=value column of a record.
type Field struct {
	Key   string
	Value FieldValue
}

// Line assembles a single line protocol record without a timestamp.
//
// Format: measurement[,tag=value,...] field=value[,field=value...]
//
// Tags and fields are joined with commas in slice order. An empty tag
// slice omits the tag section entirely, so the record degrades cleanly
// to the untagged form. An empty field slice returns ErrNoFields.
//
// Parameters:
//   - measurement: The measurement name (emitted as raw text)
//   - tags: Indexed key/value pairs, may be empty
//   - fields: Typed data columns, at least one required
//
// Returns:
//   - string: The encoded record
//   - error: ErrNoFields or ErrInvalidFieldValue
//
// Example:
//
//	lineprotocol.Line("climate",
//	    []lineprotocol.Tag{{Key: "room", Value: "kitchen"}},
//	    []lineprotocol.Field{{Key: "temp", Value: lineprotocol.FloatValue(21.5)}})
//	// "climate,room=kitchen temp=21.5"
func Line(measurement string, tags []Tag, fields []Field) (string, error) {
	var b strings.Builder
	if err := writeLine(&b, measurement, tags, fields); err != nil {
		return "", err
	}
	return b.String(), nil
}

// LineAt assembles a record with an explicit timestamp.
//
// The timestamp is appended verbatim after a single space. Its unit is
// whatever the caller chose; keep it consistent with the precision
// parameter of the surrounding write call, the two are not
// cross-validated here.
func LineAt(measurement string, tags []Tag, fields []Field, timestamp int64) (string, error) {
	var b strings.Builder
	if err := writeLine(&b, measurement, tags, fields); err != nil {
		return "", err
	}
	b.WriteByte(' ')
	b.WriteString(strconv.FormatInt(timestamp, 10))
	return b.String(), nil
}

// SimpleLine assembles the minimal untagged record "measurement value=<v>".
//
// This is the record shape of the two-argument write form: one field
// named "value", no tags, no timestamp.
func SimpleLine(measurement string, value FieldValue) (string, error) {
	var b strings.Builder
	b.WriteString(measurement)
	b.WriteString(" value=")
	if err := value.encode(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// writeLine renders measurement, tag section and field section into b.
func writeLine(b *strings.Builder, measurement string, tags []Tag, fields []Field) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: measurement %q", ErrNoFields, measurement)
	}

	b.WriteString(measurement)

	for _, t := range tags {
		b.WriteByte(',')
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}

	// Exactly one space between the tag section and the field section.
	b.WriteByte(' ')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		if err := f.Value.encode(b); err != nil {
			return fmt.Errorf("field %q: %w", f.Key, err)
		}
	}

	return nil
}

// TagsFromMap converts a tag map into a Tag slice sorted by key.
//
// Sorting makes the wire output deterministic regardless of map
// iteration order.
func TagsFromMap(tags map[string]string) []Tag {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, Tag{Key: k, Value: tags[k]})
	}
	return out
}

// FieldsFromMap converts a field map into a Field slice sorted by key.
//
// Supported value types:
//   - float64, float32: float token
//   - int, int32, int64: integer token
//   - uint, uint32, uint64: integer token (uint64 must fit in int64)
//   - bool: bare true/false token
//   - string: numeric coercion via NumberValue
//   - FieldValue: used as-is
//
// Any other type, a non-numeric string, or an out-of-range uint64
// returns ErrInvalidFieldValue.
func FieldsFromMap(fields map[string]any) ([]Field, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Field, 0, len(keys))
	for _, k := range keys {
		fv, err := fieldValueOf(fields[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out = append(out, Field{Key: k, Value: fv})
	}
	return out, nil
}

// fieldValueOf maps a dynamically typed value onto a FieldValue variant.
func fieldValueOf(v any) (FieldValue, error) {
	switch val := v.(type) {
	case FieldValue:
		return val, nil
	case float64:
		return FloatValue(val), nil
	case float32:
		return FloatValue(float64(val)), nil
	case int:
		return IntValue(int64(val)), nil
	case int32:
		return IntValue(int64(val)), nil
	case int64:
		return IntValue(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return FieldValue{}, fmt.Errorf("%w: %d overflows int64", ErrInvalidFieldValue, val)
		}
		return IntValue(int64(val)), nil
	case uint32:
		return IntValue(int64(val)), nil
	case uint64:
		if val > math.MaxInt64 {
			return FieldValue{}, fmt.Errorf("%w: %d overflows int64", ErrInvalidFieldValue, val)
		}
		return IntValue(int64(val)), nil
	case bool:
		return BoolValue(val), nil
	case string:
		return NumberValue(val)
	default:
		return FieldValue{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidFieldValue, v)
	}
}
