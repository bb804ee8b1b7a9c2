package param

import (
	"math"
	"testing"
)

func TestQueueLast(t *testing.T) {
	tests := []struct {
		name   string
		queue  Queue
		want   Point
		wantOK bool
	}{
		{name: "nil", queue: nil},
		{name: "single", queue: Queue{{Offset: 3, Value: 0.5}}, want: Point{Offset: 3, Value: 0.5}, wantOK: true},
		{
			name:   "last of several",
			queue:  Queue{{Offset: 0, Value: 0.1}, {Offset: 128, Value: 0.2}, {Offset: 511, Value: -0.3}},
			want:   Point{Offset: 511, Value: -0.3},
			wantOK: true,
		},
		{
			name:   "skips non-finite tail",
			queue:  Queue{{Offset: 0, Value: 0.25}, {Offset: 10, Value: math.NaN()}, {Offset: 20, Value: math.Inf(1)}},
			want:   Point{Offset: 0, Value: 0.25},
			wantOK: true,
		},
		{name: "only non-finite", queue: Queue{{Value: math.NaN()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.queue.Last()
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("Last() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
