package lineprotocol

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestLine(t *testing.T) {
	got, err := Line("climate",
		[]Tag{{Key: "room", Value: "kitchen"}, {Key: "floor", Value: "ground"}},
		[]Field{
			{Key: "temp", Value: FloatValue(21.5)},
			{Key: "humidity", Value: IntValue(40)},
		},
	)
	if err != nil {
		t.Fatalf("Line() error = %v", err)
	}

	want := "climate,room=kitchen,floor=ground temp=21.5,humidity=40i"
	if got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

// TestLine_SingleSpace verifies the single mandatory space between the
// tag section and the field section.
func TestLine_SingleSpace(t *testing.T) {
	got, err := Line("m",
		[]Tag{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}},
		[]Field{{Key: "x", Value: IntValue(1)}, {Key: "y", Value: IntValue(2)}},
	)
	if err != nil {
		t.Fatalf("Line() error = %v", err)
	}
	if n := strings.Count(got, " "); n != 1 {
		t.Errorf("Line() contains %d spaces, want 1: %q", n, got)
	}
}

// TestLine_NoTags verifies the empty tag set is normalized away: no
// stray leading comma, the record degrades to the untagged form.
func TestLine_NoTags(t *testing.T) {
	for _, tags := range [][]Tag{nil, {}} {
		got, err := Line("pump_state", tags, []Field{{Key: "running", Value: IntValue(1)}})
		if err != nil {
			t.Fatalf("Line() error = %v", err)
		}
		want := "pump_state running=1i"
		if got != want {
			t.Errorf("Line() = %q, want %q", got, want)
		}
	}
}

func TestLine_EmptyFields(t *testing.T) {
	_, err := Line("m", []Tag{{Key: "a", Value: "1"}}, nil)
	if err == nil {
		t.Fatal("expected error for empty field set")
	}
	if !errors.Is(err, ErrNoFields) {
		t.Errorf("error = %v, want ErrNoFields", err)
	}
}

// TestLine_OrderPreserved verifies wire order equals slice order: the
// builder accumulates forward and never reorders caller input.
func TestLine_OrderPreserved(t *testing.T) {
	got, err := Line("m",
		[]Tag{{Key: "z", Value: "1"}, {Key: "a", Value: "2"}},
		[]Field{{Key: "zz", Value: IntValue(1)}, {Key: "aa", Value: IntValue(2)}},
	)
	if err != nil {
		t.Fatalf("Line() error = %v", err)
	}
	want := "m,z=1,a=2 zz=1i,aa=2i"
	if got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestLine_InvalidField(t *testing.T) {
	_, err := Line("m", nil, []Field{{Key: "bad", Value: TextValue("x")}, {Key: "worse", Value: FloatValue(math.NaN())}})
	if err == nil {
		t.Fatal("expected error for non-finite float field")
	}
	if !errors.Is(err, ErrInvalidFieldValue) {
		t.Errorf("error = %v, want ErrInvalidFieldValue", err)
	}
	if !strings.Contains(err.Error(), "worse") {
		t.Errorf("error %q does not identify the field", err)
	}
}

func TestLineAt(t *testing.T) {
	got, err := LineAt("energy",
		[]Tag{{Key: "meter", Value: "main"}},
		[]Field{{Key: "power", Value: FloatValue(1.21)}},
		1700000000000,
	)
	if err != nil {
		t.Fatalf("LineAt() error = %v", err)
	}
	want := "energy,meter=main power=1.21 1700000000000"
	if got != want {
		t.Errorf("LineAt() = %q, want %q", got, want)
	}
}

func TestLineAt_NegativeTimestamp(t *testing.T) {
	got, err := LineAt("m", nil, []Field{{Key: "v", Value: IntValue(1)}}, -1)
	if err != nil {
		t.Fatalf("LineAt() error = %v", err)
	}
	want := "m v=1i -1"
	if got != want {
		t.Errorf("LineAt() = %q, want %q", got, want)
	}
}

func TestSimpleLine(t *testing.T) {
	tests := []struct {
		name  string
		value FieldValue
		want  string
	}{
		{"float", FloatValue(23.5), "power value=23.5"},
		{"int", IntValue(7), "power value=7i"},
		{"bool", BoolValue(true), "power value=true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SimpleLine("power", tt.value)
			if err != nil {
				t.Fatalf("SimpleLine() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SimpleLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSimpleLine_NonFinite(t *testing.T) {
	_, err := SimpleLine("power", FloatValue(math.NaN()))
	if err == nil {
		t.Fatal("expected error for non-finite value")
	}
	if !errors.Is(err, ErrInvalidFieldValue) {
		t.Errorf("error = %v, want ErrInvalidFieldValue", err)
	}
}

func TestTagsFromMap(t *testing.T) {
	got := TagsFromMap(map[string]string{"room": "kitchen", "area": "ground", "zone": "north"})
	want := []Tag{{Key: "area", Value: "ground"}, {Key: "room", Value: "kitchen"}, {Key: "zone", Value: "north"}}

	if len(got) != len(want) {
		t.Fatalf("TagsFromMap() returned %d tags, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TagsFromMap()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if TagsFromMap(nil) != nil {
		t.Error("TagsFromMap(nil) should return nil")
	}
}

func TestFieldsFromMap(t *testing.T) {
	fields, err := FieldsFromMap(map[string]any{
		"temp":  21.5,
		"count": 42,
		"on":    true,
		"ratio": "3.14",
		"total": int64(9),
	})
	if err != nil {
		t.Fatalf("FieldsFromMap() error = %v", err)
	}

	line, err := Line("m", nil, fields)
	if err != nil {
		t.Fatalf("Line() error = %v", err)
	}

	// Keys sorted, values typed per variant.
	want := "m count=42i,on=true,ratio=3.14,temp=21.5,total=9i"
	if line != want {
		t.Errorf("Line() = %q, want %q", line, want)
	}
}

func TestFieldsFromMap_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"non-numeric string", map[string]any{"v": "enabled"}},
		{"unsupported type", map[string]any{"v": struct{}{}}},
		{"uint64 overflow", map[string]any{"v": uint64(1) << 63}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FieldsFromMap(tt.fields)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidFieldValue) {
				t.Errorf("error = %v, want ErrInvalidFieldValue", err)
			}
		})
	}
}
