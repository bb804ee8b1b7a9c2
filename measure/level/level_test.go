package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pvshift/internal/testutil"
)

func TestMeterEmpty(t *testing.T) {
	var m Meter

	s := m.Result()
	if s.Length != 0 || !math.IsInf(s.RMS_dB, -1) || !math.IsInf(s.Peak_dB, -1) {
		t.Fatalf("empty stats = %+v", s)
	}

	m.Update(nil)
	if m.Result().Length != 0 {
		t.Fatal("empty update counted samples")
	}
}

func TestMeterSine(t *testing.T) {
	var m Meter

	sine := testutil.Float32(testutil.DeterministicSine(1000, 48000, 0.5, 48000))
	for pos := 0; pos < len(sine); pos += 480 {
		m.Update(sine[pos : pos+480])
	}

	s := m.Result()
	if s.Length != 48000 {
		t.Fatalf("Length = %d", s.Length)
	}

	if math.Abs(s.RMS-0.5/math.Sqrt2) > 1e-4 {
		t.Fatalf("RMS = %v, want %v", s.RMS, 0.5/math.Sqrt2)
	}

	if math.Abs(s.Peak-0.5) > 1e-6 {
		t.Fatalf("Peak = %v, want 0.5", s.Peak)
	}

	if math.Abs(s.CrestFactor-math.Sqrt2) > 1e-3 {
		t.Fatalf("CrestFactor = %v, want sqrt(2)", s.CrestFactor)
	}

	if math.Abs(s.DC) > 1e-4 || s.Clipped != 0 {
		t.Fatalf("DC = %v, Clipped = %d", s.DC, s.Clipped)
	}
}

func TestMeterClippingAndReset(t *testing.T) {
	var m Meter

	m.Update([]float32{0.25, -1, 1.5, 0.999, -2})

	s := m.Result()
	if s.Clipped != 3 || s.Peak != 2 {
		t.Fatalf("Clipped = %d, Peak = %v", s.Clipped, s.Peak)
	}

	if math.Abs(s.Peak_dB-20*math.Log10(2)) > 1e-12 {
		t.Fatalf("Peak_dB = %v", s.Peak_dB)
	}

	m.Reset()
	if m.Result().Length != 0 {
		t.Fatal("Reset kept samples")
	}
}

func TestMeterSilence(t *testing.T) {
	var m Meter

	m.Update(make([]float32, 64))

	s := m.Result()
	if s.RMS != 0 || s.CrestFactor != 0 || s.CrestFactor_dB != 0 || !math.IsInf(s.RMS_dB, -1) {
		t.Fatalf("silence stats = %+v", s)
	}
}
