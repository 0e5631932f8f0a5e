// Package privacy implements the masking engine.
package privacy

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"light", LevelLight},
		{"LIGHT", LevelLight},
		{"  strict ", LevelStrict},
		{"moderate", LevelModerate},
		{"", LevelModerate},
		{"paranoid", LevelModerate},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	base := Config{
		Enabled:        true,
		Level:          LevelModerate,
		CustomPatterns: []string{"badge"},
	}

	t.Run("nil override", func(t *testing.T) {
		got := base.Merge(nil)
		if got.Level != LevelModerate || !got.Enabled {
			t.Errorf("Merge(nil) = %+v", got)
		}
	})

	t.Run("level override", func(t *testing.T) {
		got := base.Merge(&Config{Enabled: true, Level: LevelStrict})
		if got.Level != LevelStrict {
			t.Errorf("Level = %q, want strict", got.Level)
		}
	})

	t.Run("empty level keeps base", func(t *testing.T) {
		got := base.Merge(&Config{Enabled: true})
		if got.Level != LevelModerate {
			t.Errorf("Level = %q, want moderate", got.Level)
		}
	})

	t.Run("patterns appended", func(t *testing.T) {
		got := base.Merge(&Config{Enabled: true, CustomPatterns: []string{"clearance"}})
		if len(got.CustomPatterns) != 2 || got.CustomPatterns[0] != "badge" || got.CustomPatterns[1] != "clearance" {
			t.Errorf("CustomPatterns = %v", got.CustomPatterns)
		}
	})

	t.Run("disable per call", func(t *testing.T) {
		got := base.Merge(&Config{Enabled: false, Level: LevelModerate})
		if got.Enabled {
			t.Error("override could not disable masking")
		}
	})
}
