package pitch

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	src := mustEngine(t)
	if err := src.SetPitchSemitones(7); err != nil {
		t.Fatal(err)
	}

	data, err := src.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	if len(data) != 12 || string(data[:4]) != "PVS1" {
		t.Fatalf("record = %q", data)
	}

	dst := mustEngine(t)
	if err := dst.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}

	if dst.PitchControl() != src.PitchControl() {
		t.Fatalf("restored PitchControl() = %v, want %v", dst.PitchControl(), src.PitchControl())
	}

	if want := math.Exp2(7.0 / 12); math.Abs(dst.PitchRatio()-want) > 1e-12 {
		t.Fatalf("restored PitchRatio() = %v, want %v without glide", dst.PitchRatio(), want)
	}
}

func TestStateRejectsBadRecords(t *testing.T) {
	valid, err := mustEngine(t).MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	badTag := append([]byte(nil), valid...)
	copy(badTag, "PVS2")

	nan := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint64(nan[4:], math.Float64bits(math.NaN()))

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "truncated", data: valid[:8]},
		{name: "trailing bytes", data: append(append([]byte(nil), valid...), 0)},
		{name: "unknown tag", data: badTag},
		{name: "NaN pitch", data: nan},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEngine(t, WithPitchControl(0.5))

			if err := e.UnmarshalBinary(tt.data); !errors.Is(err, ErrInvalidState) {
				t.Fatalf("UnmarshalBinary() error = %v, want ErrInvalidState", err)
			}

			if e.PitchControl() != 0.5 {
				t.Fatalf("failed restore changed PitchControl() to %v", e.PitchControl())
			}
		})
	}
}
