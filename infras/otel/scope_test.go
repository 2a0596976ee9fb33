package otel_test

import (
	"fieldbook/infras/otel"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

type weekday int

func (w weekday) String() string { return "Monday" }

func TestAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  attribute.Value
	}{
		{name: "bool", value: true, want: attribute.BoolValue(true)},
		{name: "string", value: "field-a", want: attribute.StringValue("field-a")},
		{name: "int", value: 5, want: attribute.IntValue(5)},
		{name: "int64", value: int64(7), want: attribute.Int64Value(7)},
		{name: "float", value: 0.5, want: attribute.Float64Value(0.5)},
		{name: "strings", value: []string{"a", "b"}, want: attribute.StringSliceValue([]string{"a", "b"})},
		{name: "ints", value: []int{1, 3}, want: attribute.IntSliceValue([]int{1, 3})},
		{name: "time", value: time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC), want: attribute.StringValue("2026-01-05T18:00:00Z")},
		{name: "stringer", value: weekday(1), want: attribute.StringValue("Monday")},
		{name: "fallback", value: struct{ N int }{N: 2}, want: attribute.StringValue("{2}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := otel.Attribute("key", tt.value)

			assert.Equal(t, attribute.Key("key"), kv.Key)
			assert.Equal(t, tt.want, kv.Value)
		})
	}
}
