package live

import (
	"fmt"
	"math"
	"testing"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{in: "12:34", want: 754, ok: true},
		{in: " 0:07 ", want: 7, ok: true},
		{in: "20:00", want: 1200, ok: true},
		{in: "45.3", want: 45.3, ok: true},
		{in: "", ok: false},
		{in: "half", ok: false},
		{in: "1:75", ok: false},
		{in: "-1:00", ok: false},
		{in: "a:10", ok: false},
	}

	for _, tc := range tests {
		got, ok := ParseClock(tc.in)
		if ok != tc.ok {
			t.Fatalf("unexpected ok for %q: got=%v want=%v", tc.in, ok, tc.ok)
		}
		if ok && math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("unexpected seconds for %q: got=%v want=%v", tc.in, got, tc.want)
		}
	}
}

func TestTimeFraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		period int
		clock  string
		want   float64
	}{
		{name: "tip", period: 1, clock: "20:00", want: 0},
		{name: "halftime", period: 1, clock: "0:00", want: 0.5},
		{name: "mid second half", period: 2, clock: "10:00", want: 0.75},
		{name: "end of regulation", period: 2, clock: "0:00", want: 1},
		{name: "start of overtime", period: 3, clock: "5:00", want: 2400.0 / 3300.0},
		{name: "end of overtime", period: 3, clock: "0:00", want: 2700.0 / 3300.0},
		{name: "deep overtime clamps", period: 7, clock: "0:00", want: 1},
		{name: "period zero treated as first", period: 0, clock: "15:00", want: 300.0 / 2400.0},
		{name: "malformed clock", period: 2, clock: "--", want: 0},
	}

	for _, tc := range tests {
		got := TimeFraction(tc.period, tc.clock)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: unexpected fraction: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestTimeFraction_MonotonicWithinRegulation(t *testing.T) {
	t.Parallel()

	prev := -1.0
	for period := 1; period <= 2; period++ {
		for secs := 1200; secs >= 0; secs -= 30 {
			clock := formatClock(secs)
			got := TimeFraction(period, clock)
			if got < prev {
				t.Fatalf("fraction went backwards at period=%d clock=%s: %v < %v", period, clock, got, prev)
			}
			prev = got
		}
	}
}

func formatClock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
