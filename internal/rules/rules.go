// Package rules holds the per-sport scoring configuration: whether the
// sport uses a game clock, which period presets the reset buttons offer,
// which score increments exist, and which player stats are tracked.
//
// Stat keys are short, stable, and lowercase because they become
// live_events.stat_key and leaderboard keys.
package rules

import "strings"

type ClockMode struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Presets []int  `json:"presets"`
}

type ClockRules struct {
	Enabled     bool        `json:"enabled"`
	Modes       []ClockMode `json:"modes,omitempty"`
	DefaultMode string      `json:"default_mode,omitempty"`
}

type StatDef struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Deltas []int  `json:"deltas"`
}

type SportRules struct {
	Key          string     `json:"key"`
	Label        string     `json:"label"`
	Clock        ClockRules `json:"clock"`
	ScoreButtons []int      `json:"score_buttons"`
	Stats        []StatDef  `json:"stats"`
}

var sports = map[string]SportRules{
	"hoop": {
		Key:   "hoop",
		Label: "Hoop",
		Clock: ClockRules{
			Enabled: true,
			Modes: []ClockMode{
				{ID: "quarters", Label: "Quarters", Presets: []int{300, 360, 420, 480, 600, 720, 900, 1200, 1800}},
				{ID: "halves", Label: "Halves", Presets: []int{600, 720, 900, 1200, 1500, 1800}},
			},
			DefaultMode: "quarters",
		},
		ScoreButtons: []int{1, 2, 3},
		Stats: []StatDef{
			{Key: "pts", Label: "PTS", Deltas: []int{1, 2, 3}},
			{Key: "ast", Label: "AST", Deltas: []int{1}},
			{Key: "reb", Label: "REB", Deltas: []int{1}},
			{Key: "blk", Label: "BLK", Deltas: []int{1}},
		},
	},
	"soccer": {
		Key:   "soccer",
		Label: "Soccer",
		Clock: ClockRules{
			Enabled: true,
			Modes: []ClockMode{
				{ID: "countdown", Label: "Countdown", Presets: []int{600, 900, 1200, 1500, 1800}},
			},
			DefaultMode: "countdown",
		},
		ScoreButtons: []int{1},
		Stats: []StatDef{
			{Key: "g", Label: "G", Deltas: []int{1}},
			{Key: "a", Label: "A", Deltas: []int{1}},
			{Key: "s", Label: "S", Deltas: []int{1}},
		},
	},
	"softball": {
		Key:          "softball",
		Label:        "Softball",
		Clock:        ClockRules{Enabled: false},
		ScoreButtons: []int{1},
		Stats: []StatDef{
			{Key: "h", Label: "H", Deltas: []int{1}},
			{Key: "hr", Label: "HR", Deltas: []int{1}},
			{Key: "so", Label: "SO", Deltas: []int{1}},
			{Key: "rbi", Label: "RBI", Deltas: []int{1}},
		},
	},
	"volleyball": {
		Key:          "volleyball",
		Label:        "Volleyball",
		Clock:        ClockRules{Enabled: false},
		ScoreButtons: []int{1},
		Stats: []StatDef{
			{Key: "ace", Label: "Aces", Deltas: []int{1}},
			{Key: "kill", Label: "Kills", Deltas: []int{1}},
		},
	},
	"football": {
		Key:   "football",
		Label: "Football",
		Clock: ClockRules{
			Enabled: true,
			Modes: []ClockMode{
				{ID: "quarters", Label: "Quarters", Presets: []int{300, 360, 420, 480, 600, 720}},
				{ID: "halves", Label: "Halves", Presets: []int{600, 720, 900, 1200, 1500, 1800}},
			},
			DefaultMode: "quarters",
		},
		ScoreButtons: []int{1, 2, 6},
		Stats: []StatDef{
			{Key: "td", Label: "TD", Deltas: []int{1}},
			{Key: "int", Label: "INT", Deltas: []int{1}},
		},
	},
	"speedball": {
		Key:   "speedball",
		Label: "Speedball",
		Clock: ClockRules{
			Enabled: true,
			Modes: []ClockMode{
				{ID: "periods", Label: "8 Periods", Presets: []int{240, 300, 360, 420, 480, 540, 600}},
			},
			DefaultMode: "periods",
		},
		ScoreButtons: []int{1},
		Stats: []StatDef{
			{Key: "g", Label: "G", Deltas: []int{1}},
			{Key: "a", Label: "A", Deltas: []int{1}},
			{Key: "s", Label: "S", Deltas: []int{1}},
		},
	},
	"euro": {
		Key:   "euro",
		Label: "Euro",
		Clock: ClockRules{
			Enabled: true,
			Modes: []ClockMode{
				{ID: "quarters", Label: "Quarters", Presets: []int{300, 360, 420, 480, 600, 720, 900}},
				{ID: "halves", Label: "Halves", Presets: []int{600, 720, 900, 1200, 1500, 1800}},
			},
			DefaultMode: "quarters",
		},
		ScoreButtons: []int{1},
		Stats: []StatDef{
			{Key: "g", Label: "G", Deltas: []int{1}},
			{Key: "a", Label: "A", Deltas: []int{1}},
			{Key: "s", Label: "S", Deltas: []int{1}},
		},
	},
	"hockey": {
		Key:   "hockey",
		Label: "Hockey",
		Clock: ClockRules{
			Enabled: true,
			Modes: []ClockMode{
				{ID: "periods", Label: "3 Periods", Presets: []int{300, 360, 420, 480, 600, 720, 900, 1200}},
			},
			DefaultMode: "periods",
		},
		ScoreButtons: []int{1},
		Stats: []StatDef{
			{Key: "g", Label: "G", Deltas: []int{1}},
			{Key: "a", Label: "A", Deltas: []int{1}},
			{Key: "s", Label: "S", Deltas: []int{1}},
		},
	},
}

var aliases = map[string]string{
	"basketball": "hoop",
	"bb":         "hoop",
	"hoops":      "hoop",
}

// Normalize lowercases and trims a sport or stat key the way every call
// site must before comparing or persisting it.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ForSport resolves the rules for a sport, following aliases. Unknown
// sports fall back to hoop so a misconfigured game still gets a usable
// scoring screen.
func ForSport(sport string) SportRules {
	k := Normalize(sport)
	if resolved, ok := aliases[k]; ok {
		k = resolved
	}
	if r, ok := sports[k]; ok {
		return r
	}
	return sports["hoop"]
}

// DefaultPresets returns the reset presets for the sport's default clock
// mode, or nil when the sport has no clock.
func DefaultPresets(sport string) []int {
	r := ForSport(sport)
	if !r.Clock.Enabled {
		return nil
	}
	for _, m := range r.Clock.Modes {
		if m.ID == r.Clock.DefaultMode {
			return m.Presets
		}
	}
	if len(r.Clock.Modes) > 0 {
		return r.Clock.Modes[0].Presets
	}
	return nil
}
