package lineprotocol

import (
	"testing"
)

func BenchmarkLine_Simple(b *testing.B) {
	tags := []Tag{{Key: "device_id", Value: "pump-01"}, {Key: "metric", Value: "power_watts"}}
	fields := []Field{{Key: "value", Value: FloatValue(23.5)}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Line("device_metrics", tags, fields); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLine_MultiField(b *testing.B) {
	tags := []Tag{{Key: "device_id", Value: "thermostat-01"}}
	fields := []Field{
		{Key: "temperature", Value: FloatValue(21.5)},
		{Key: "humidity", Value: FloatValue(45.0)},
		{Key: "setpoint", Value: FloatValue(22.0)},
		{Key: "cycles", Value: IntValue(1042)},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Line("climate", tags, fields); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBatch_100Points(b *testing.B) {
	points := make([]Point, 100)
	for i := range points {
		points[i] = Point{
			Measurement: "device_metrics",
			Tags:        []Tag{{Key: "device_id", Value: "sensor-42"}},
			Fields:      []Field{{Key: "value", Value: FloatValue(float64(i) + 0.5)}},
			Timestamp:   1700000000000 + int64(i),
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Batch(points); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNumberValue(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := NumberValue("3.14159"); err != nil {
			b.Fatal(err)
		}
	}
}
