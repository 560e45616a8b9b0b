package sound

import (
	"errors"
	"math"
	"testing"
)

func TestTriggered(t *testing.T) {
	tests := []struct {
		name      string
		intensity float64
		threshold float64
		expected  bool
	}{
		{"above threshold", 100, 40, true},
		{"at threshold", 40, 40, false},
		{"below threshold", 10, 40, false},
		{"normalized feed", 0.2, 0.1, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Triggered(tc.intensity, tc.threshold); got != tc.expected {
				t.Errorf("Triggered(%v, %v) = %v, expected %v", tc.intensity, tc.threshold, got, tc.expected)
			}
		})
	}
}

func TestSamplerRejectsBadReadings(t *testing.T) {
	s := NewSampler(0, 255)

	for _, raw := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -5} {
		if s.Sample(raw) {
			t.Errorf("Sample(%v) should never trigger", raw)
		}
	}
	if !s.Sample(300) {
		t.Error("Sample(300) should trigger after clamping to 255")
	}
	if got := s.Level(510); got != 1 {
		t.Errorf("Level should clamp to 1, got %v", got)
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize(math.NaN(), 255); got != 0 {
		t.Errorf("Sanitize(NaN) = %v, expected 0", got)
	}
	if got := Sanitize(1000, 0); got != 1000 {
		t.Errorf("Sanitize with max 0 should not clamp, got %v", got)
	}
}

func TestAverageBinsAndPeak(t *testing.T) {
	if got := AverageBins([]uint8{0, 100, 200}); got != 100 {
		t.Errorf("AverageBins = %v, expected 100", got)
	}
	if got := AverageBins(nil); got != 0 {
		t.Errorf("AverageBins(nil) = %v, expected 0", got)
	}
	if got := PeakAmplitude([]int16{3, -1200, 800}); got != 1200 {
		t.Errorf("PeakAmplitude = %v, expected 1200", got)
	}
}

func TestMeterFraction(t *testing.T) {
	if got := MeterFraction(10); got != 0 {
		t.Errorf("quiet meter = %v, expected 0", got)
	}
	if got := MeterFraction(45); got != 0.5 {
		t.Errorf("MeterFraction(45) = %v, expected 0.5", got)
	}
	if got := MeterFraction(255); got != 1 {
		t.Errorf("loud meter = %v, expected 1", got)
	}
}

func TestPulseDecays(t *testing.T) {
	p := NewPulse(255, 100)
	if p.Poll() != 0 {
		t.Error("pulse should start silent")
	}

	p.Kick()
	want := []float64{255, 155, 55, 0, 0}
	for i, w := range want {
		if got := p.Poll(); got != w {
			t.Errorf("poll %d = %v, expected %v", i, got, w)
		}
	}
}

func TestGateLifecycle(t *testing.T) {
	g := NewGate()
	if g.State() != AwaitingPermission {
		t.Fatalf("new gate state = %v", g.State())
	}
	if err := g.Store(200); !errors.Is(err, ErrNotReady) {
		t.Errorf("Store before Grant = %v, expected ErrNotReady", err)
	}
	if g.Poll() != 0 {
		t.Error("gate should report silence while awaiting permission")
	}

	g.Grant()
	if err := g.Store(200); err != nil {
		t.Fatalf("Store after Grant failed: %v", err)
	}
	if g.Poll() != 200 {
		t.Errorf("Poll = %v, expected 200", g.Poll())
	}

	g.Revoke()
	if g.Poll() != 0 || g.State() != AwaitingPermission {
		t.Error("Revoke should silence the gate")
	}
}

func TestMessageApply(t *testing.T) {
	g := NewGate()
	v := 120.0

	if err := (Message{Type: MsgSample, Intensity: &v}).Apply(g); !errors.Is(err, ErrNotReady) {
		t.Errorf("sample before ready = %v, expected ErrNotReady", err)
	}
	if err := (Message{Type: MsgReady}).Apply(g); err != nil {
		t.Fatal(err)
	}
	if err := (Message{Type: MsgSample, Bins: []int{0, 300, -4, 100}}).Apply(g); err != nil {
		t.Fatal(err)
	}
	// bins clamp to 0..255: (0 + 255 + 0 + 100) / 4
	if got := g.Poll(); got != 88.75 {
		t.Errorf("bin sample = %v, expected 88.75", got)
	}
	if err := (Message{Type: "bogus"}).Apply(g); err == nil {
		t.Error("unknown message type should fail")
	}
	if err := (Message{Type: MsgSample}).Apply(g); err == nil {
		t.Error("empty sample should fail")
	}
}

func TestMaxSource(t *testing.T) {
	var a, b Latest
	a.Store(10)
	b.Store(90)
	if got := (Max{&a, &b, Silence{}}).Poll(); got != 90 {
		t.Errorf("Max.Poll = %v, expected 90", got)
	}
}
