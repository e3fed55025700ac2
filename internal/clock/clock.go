// Package clock derives "what the game clock shows right now" from the
// persisted anchor record. It is pure computation: no I/O, no side
// effects, no dependency on the wall clock beyond the caller-supplied
// instant.
package clock

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ethanesterson-creator/crest-league-live/internal/domain"
)

// DeriveReading computes the current reading from a persisted clock
// state and a wall-clock instant in float seconds since epoch.
//
// While running, remaining counts down from the anchor snapshot and is
// clamped at zero; an expired clock keeps reporting 0 with
// IsRunning=true (no auto-pause, callers poll to notice expiry). A
// running state whose anchor is nil or non-positive is a half-written
// remote record and is read through the paused branch instead of
// producing a nonsense elapsed time.
func DeriveReading(st domain.ClockState, nowSeconds float64) domain.ClockReading {
	if st.Running && st.AnchorTS != nil && *st.AnchorTS > 0 {
		elapsed := math.Max(0, nowSeconds-*st.AnchorTS)
		remaining := math.Max(0, float64(st.RemainingAtAnchor)-elapsed)
		return domain.ClockReading{Remaining: remaining, IsRunning: true}
	}

	remaining := st.RemainingSeconds
	if remaining <= 0 && st.RemainingAtAnchor > 0 {
		remaining = st.RemainingAtAnchor
	}
	if remaining < 0 {
		remaining = 0
	}
	return domain.ClockReading{Remaining: float64(remaining), IsRunning: false}
}

// ReadingAt is DeriveReading with a time.Time instant.
func ReadingAt(st domain.ClockState, now time.Time) domain.ClockReading {
	return DeriveReading(st, Seconds(now))
}

// Seconds converts an instant to float seconds since epoch, the unit the
// store persists anchors in.
func Seconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// Format renders whole seconds as mm:ss, flooring fractional seconds and
// clamping negatives to 00:00. Minutes may exceed two digits.
func Format(seconds float64) string {
	s := int(math.Floor(seconds))
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

var mmssRe = regexp.MustCompile(`^(\d{1,3}):([0-5]\d)$`)

// ParseMMSS parses counselor-typed clock input. Minutes up to three
// digits, seconds exactly two and below 60.
func ParseMMSS(input string) (int, error) {
	m := mmssRe.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return 0, &domain.ValidationError{Field: "time", Msg: "must be mm:ss (example: 11:05)"}
	}
	mm, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &domain.ValidationError{Field: "time", Msg: "must be mm:ss (example: 11:05)"}
	}
	ss, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, &domain.ValidationError{Field: "time", Msg: "must be mm:ss (example: 11:05)"}
	}
	return mm*60 + ss, nil
}
