package lineprotocol

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// encodeValue renders a single FieldValue, failing the test on error.
func encodeValue(t *testing.T, v FieldValue) string {
	t.Helper()
	var b strings.Builder
	if err := v.encode(&b); err != nil {
		t.Fatalf("encode() error = %v", err)
	}
	return b.String()
}

func TestFieldValue_Encode(t *testing.T) {
	tests := []struct {
		name  string
		value FieldValue
		want  string
	}{
		{"int", IntValue(42), "42i"},
		{"int zero", IntValue(0), "0i"},
		{"int negative", IntValue(-7), "-7i"},
		{"int max", IntValue(math.MaxInt64), "9223372036854775807i"},
		{"float whole keeps decimal point", FloatValue(42.0), "42.0"},
		{"float fraction", FloatValue(3.14), "3.14"},
		{"float negative", FloatValue(-0.5), "-0.5"},
		{"float large", FloatValue(1e21), "1000000000000000000000.0"},
		{"float small", FloatValue(0.0000001), "0.0000001"},
		{"text raw", TextValue("heating"), "heating"},
		{"bool true", BoolValue(true), "true"},
		{"bool false", BoolValue(false), "false"},
		{"zero value", FieldValue{}, "0i"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeValue(t, tt.value); got != tt.want {
				t.Errorf("encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestFieldValue_IntFloatNeverAmbiguous pins the type markers: integers
// carry the "i" suffix, whole floats keep their decimal point.
func TestFieldValue_IntFloatNeverAmbiguous(t *testing.T) {
	if got := encodeValue(t, IntValue(42)); got != "42i" {
		t.Errorf("integer 42 = %q, want %q", got, "42i")
	}
	if got := encodeValue(t, FloatValue(42.0)); got != "42.0" {
		t.Errorf("float 42.0 = %q, want %q", got, "42.0")
	}
}

func TestFloatValue_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		var b strings.Builder
		err := FloatValue(v).encode(&b)
		if err == nil {
			t.Fatalf("encode(%v) expected error, got nil", v)
		}
		if !errors.Is(err, ErrInvalidFieldValue) {
			t.Errorf("encode(%v) error = %v, want ErrInvalidFieldValue", v, err)
		}
	}
}

func TestNumberValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42i"},
		{"0", "0i"},
		{"-17", "-17i"},
		{"+8", "8i"},
		{"3.14", "3.14"},
		{"42.0", "42.0"},
		{"-0.5", "-0.5"},
		{"1e3", "1000.0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := NumberValue(tt.input)
			if err != nil {
				t.Fatalf("NumberValue(%q) error = %v", tt.input, err)
			}
			if got := encodeValue(t, v); got != tt.want {
				t.Errorf("NumberValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNumberValue_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "4 2", "12px", "NaN", "Inf", "-Inf", "0x1A"} {
		_, err := NumberValue(input)
		if err == nil {
			t.Fatalf("NumberValue(%q) expected error, got nil", input)
		}
		if !errors.Is(err, ErrInvalidFieldValue) {
			t.Errorf("NumberValue(%q) error = %v, want ErrInvalidFieldValue", input, err)
		}
	}
}

// TestNumberValue_IntegerBeforeFloat pins the coercion order: text that
// parses as an integer becomes an integer token, not a float.
func TestNumberValue_IntegerBeforeFloat(t *testing.T) {
	v, err := NumberValue("42")
	if err != nil {
		t.Fatalf("NumberValue() error = %v", err)
	}
	if got := encodeValue(t, v); got != "42i" {
		t.Errorf("NumberValue(\"42\") = %q, want %q", got, "42i")
	}

	v, err = NumberValue("3.14")
	if err != nil {
		t.Fatalf("NumberValue() error = %v", err)
	}
	if got := encodeValue(t, v); got != "3.14" {
		t.Errorf("NumberValue(\"3.14\") = %q, want %q", got, "3.14")
	}
}
