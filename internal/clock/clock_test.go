package clock

import (
	"testing"

	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
)

func anchored(ts float64, atAnchor, stored int) domain.ClockState {
	return domain.ClockState{
		Running:           true,
		AnchorTS:          &ts,
		RemainingAtAnchor: atAnchor,
		RemainingSeconds:  stored,
		DurationSeconds:   600,
	}
}

func TestDeriveReadingRunning(t *testing.T) {
	st := anchored(1000, 600, 600)

	r := DeriveReading(st, 1010)
	if !r.IsRunning {
		t.Fatal("expected running reading")
	}
	if r.Remaining != 590 {
		t.Fatalf("remaining = %v, want 590", r.Remaining)
	}
}

func TestDeriveReadingMonotonicWhileRunning(t *testing.T) {
	st := anchored(1000, 300, 300)

	prev := DeriveReading(st, 1000).Remaining
	for now := 1000.25; now < 1400; now += 0.25 {
		cur := DeriveReading(st, now).Remaining
		if cur > prev {
			t.Fatalf("remaining increased: %v -> %v at now=%v", prev, cur, now)
		}
		prev = cur
	}
}

func TestDeriveReadingFloorsAtZero(t *testing.T) {
	st := anchored(1000, 30, 30)

	r := DeriveReading(st, 5000)
	if r.Remaining != 0 {
		t.Fatalf("remaining = %v, want 0", r.Remaining)
	}
	if !r.IsRunning {
		t.Fatal("expired clock must still report running; pausing is the controller's call")
	}
}

func TestDeriveReadingClockSkewBeforeAnchor(t *testing.T) {
	// A device whose wall clock is behind the writer's sees now < anchor.
	// Elapsed clamps at zero, so the reading holds at the anchor value.
	st := anchored(1000, 240, 240)

	r := DeriveReading(st, 990)
	if r.Remaining != 240 {
		t.Fatalf("remaining = %v, want 240", r.Remaining)
	}
}

func TestDeriveReadingCorruptAnchorFallsBackToPaused(t *testing.T) {
	zero := 0.0
	cases := []struct {
		name string
		st   domain.ClockState
	}{
		{"nil anchor", domain.ClockState{Running: true, RemainingSeconds: 45}},
		{"zero anchor", domain.ClockState{Running: true, AnchorTS: &zero, RemainingSeconds: 45}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := DeriveReading(tc.st, 2000)
			if r.IsRunning {
				t.Fatal("corrupt running state must read as paused")
			}
			if r.Remaining != 45 {
				t.Fatalf("remaining = %v, want 45", r.Remaining)
			}
		})
	}
}

func TestDeriveReadingPausedPrefersStoredSnapshot(t *testing.T) {
	st := domain.ClockState{RemainingSeconds: 120, RemainingAtAnchor: 90}
	if r := DeriveReading(st, 1000); r.Remaining != 120 || r.IsRunning {
		t.Fatalf("got %+v, want paused 120", r)
	}

	// Stored snapshot absent: fall back to the anchor value.
	st = domain.ClockState{RemainingAtAnchor: 90}
	if r := DeriveReading(st, 1000); r.Remaining != 90 || r.IsRunning {
		t.Fatalf("got %+v, want paused 90", r)
	}

	// Nothing at all: zero, never negative.
	st = domain.ClockState{}
	if r := DeriveReading(st, 1000); r.Remaining != 0 || r.IsRunning {
		t.Fatalf("got %+v, want paused 0", r)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00"},
		{-3, "00:00"},
		{59.9, "00:59"},
		{75, "01:15"},
		{600, "10:00"},
		{3600, "60:00"},
		{6000, "100:00"},
	}
	for _, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Errorf("Format(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseMMSS(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"11:05", 665, false},
		{"0:30", 30, false},
		{"120:00", 7200, false},
		{" 5:00 ", 300, false},
		{"", 0, true},
		{"5", 0, true},
		{"5:5", 0, true},
		{"5:60", 0, true},
		{"1234:00", 0, true},
		{"-1:00", 0, true},
		{"aa:bb", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseMMSS(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMMSS(%q): expected error", tc.in)
			} else if !domain.IsValidation(err) {
				t.Errorf("ParseMMSS(%q): error is not a ValidationError: %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMMSS(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMMSS(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
