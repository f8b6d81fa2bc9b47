package lineprotocol

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// fieldKind discriminates the variants of FieldValue.
type fieldKind uint8

const (
	kindInt fieldKind = iota
	kindFloat
	kindText
)

// FieldValue is a scalar field value: integer, float, or raw text.
//
// Each variant has its own wire rendering. Integers carry the trailing
// "i" marker, floats always include a decimal point, text is emitted
// verbatim. Construct values with IntValue, FloatValue, TextValue,
// BoolValue or NumberValue; the zero value renders as the integer 0.
type FieldValue struct {
	kind fieldKind
	num  int64
	fl   float64
	text string
}

// IntValue returns a FieldValue that encodes as an integer token ("42i").
func IntValue(v int64) FieldValue {
	return FieldValue{kind: kindInt, num: v}
}

// FloatValue returns a FieldValue that encodes as a float token.
//
// The rendering always contains a decimal point ("42.0", never "42") so
// the database cannot mistake it for an integer. NaN and infinities are
// rejected at encode time with ErrInvalidFieldValue.
func FloatValue(v float64) FieldValue {
	return FieldValue{kind: kindFloat, fl: v}
}

// TextValue returns a FieldValue that encodes as raw text.
//
// This is the escape hatch for values that are already wire-formatted.
// The text is not quoted or escaped.
func TextValue(s string) FieldValue {
	return FieldValue{kind: kindText, text: s}
}

// BoolValue returns a FieldValue rendering as the bare token "true" or
// "false", which the database stores as a boolean.
func BoolValue(v bool) FieldValue {
	if v {
		return FieldValue{kind: kindText, text: "true"}
	}
	return FieldValue{kind: kindText, text: "false"}
}

// NumberValue parses numeric text into a typed FieldValue.
//
// The value is interpreted as an integer first and as a float second:
// "42" becomes the integer token 42i, "3.14" and "1e3" become float
// tokens. This recovers the numeric type of field values that arrive
// pre-stringified, such as batch literals or JSON numbers.
//
// Text that parses as neither, and non-finite floats, return
// ErrInvalidFieldValue.
func NumberValue(s string) (FieldValue, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return FieldValue{}, fmt.Errorf("%w: %q is not numeric", ErrInvalidFieldValue, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return FieldValue{}, fmt.Errorf("%w: %q is not finite", ErrInvalidFieldValue, s)
	}
	return FloatValue(f), nil
}

// encode appends the wire rendering of the value to b.
func (v FieldValue) encode(b *strings.Builder) error {
	switch v.kind {
	case kindInt:
		b.WriteString(strconv.FormatInt(v.num, 10))
		b.WriteByte('i')
	case kindFloat:
		if math.IsNaN(v.fl) || math.IsInf(v.fl, 0) {
			return fmt.Errorf("%w: %v is not finite", ErrInvalidFieldValue, v.fl)
		}
		s := strconv.FormatFloat(v.fl, 'f', -1, 64)
		b.WriteString(s)
		// The 'f' format drops the fraction for whole numbers; restore it
		// so the token is unambiguously a float.
		if !strings.Contains(s, ".") {
			b.WriteString(".0")
		}
	case kindText:
		b.WriteString(v.text)
	}
	return nil
}
