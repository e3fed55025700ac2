package rules

import "testing"

func TestForSportAliases(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hoop", "hoop"},
		{"Basketball", "hoop"},
		{"  BB ", "hoop"},
		{"soccer", "soccer"},
		{"croquet", "hoop"}, // unknown falls back
		{"", "hoop"},
	}
	for _, tc := range cases {
		if got := ForSport(tc.in); got.Key != tc.want {
			t.Errorf("ForSport(%q).Key = %q, want %q", tc.in, got.Key, tc.want)
		}
	}
}

func TestClocklessSports(t *testing.T) {
	for _, sport := range []string{"softball", "volleyball"} {
		if ForSport(sport).Clock.Enabled {
			t.Errorf("%s should not have a clock", sport)
		}
		if DefaultPresets(sport) != nil {
			t.Errorf("%s should have no presets", sport)
		}
	}
}

func TestDefaultPresets(t *testing.T) {
	got := DefaultPresets("hoop")
	want := []int{300, 360, 420, 480, 600, 720, 900, 1200, 1800}
	if len(got) != len(want) {
		t.Fatalf("presets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("presets = %v, want %v", got, want)
		}
	}
}

func TestStatKeysAreNormalized(t *testing.T) {
	for key, r := range sports {
		for _, sd := range r.Stats {
			if sd.Key != Normalize(sd.Key) {
				t.Errorf("%s stat key %q is not normalized", key, sd.Key)
			}
		}
	}
}
