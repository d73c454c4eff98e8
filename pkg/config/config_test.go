package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPresets(t *testing.T) {
	tests := []struct {
		name          string
		config        *Configuration
		version       int32
		maxLength     int32
		scale         int32
		defaultWeight int32
		emoji         bool
		ranges        int
	}{
		{"v1", ConfigV1(), 1, 140, 1, 1, false, 0},
		{"v2", ConfigV2(), 2, 280, 100, 200, false, 4},
		{"v3", ConfigV3(), 3, 280, 100, 200, true, 4},
		{"default", Default(), 3, 280, 100, 200, true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.config
			if c.Version != tt.version {
				t.Errorf("Version = %d, expected %d", c.Version, tt.version)
			}
			if c.MaxWeightedTweetLength != tt.maxLength {
				t.Errorf("MaxWeightedTweetLength = %d, expected %d", c.MaxWeightedTweetLength, tt.maxLength)
			}
			if c.Scale != tt.scale {
				t.Errorf("Scale = %d, expected %d", c.Scale, tt.scale)
			}
			if c.DefaultWeight != tt.defaultWeight {
				t.Errorf("DefaultWeight = %d, expected %d", c.DefaultWeight, tt.defaultWeight)
			}
			if c.TransformedURLLength != 23 {
				t.Errorf("TransformedURLLength = %d, expected 23", c.TransformedURLLength)
			}
			if c.EmojiParsingEnabled != tt.emoji {
				t.Errorf("EmojiParsingEnabled = %v, expected %v", c.EmojiParsingEnabled, tt.emoji)
			}
			if len(c.Ranges) != tt.ranges {
				t.Errorf("len(Ranges) = %d, expected %d", len(c.Ranges), tt.ranges)
			}
		})
	}
}

func TestDefaultRanges(t *testing.T) {
	expected := []WeightedRange{
		NewWeightedRange(0, 4351, 100),
		NewWeightedRange(8192, 8205, 100),
		NewWeightedRange(8208, 8223, 100),
		NewWeightedRange(8242, 8247, 100),
	}

	got := ConfigV3().Ranges
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("range %d = %+v, expected %+v", i, got[i], expected[i])
		}
	}
}

func TestPreset(t *testing.T) {
	for _, name := range PresetNames() {
		if _, err := Preset(name); err != nil {
			t.Errorf("Preset(%q) failed: %v", name, err)
		}
	}

	c, err := Preset("")
	if err != nil || c.Version != 3 {
		t.Errorf("empty preset name should give v3, got %+v, %v", c, err)
	}

	if _, err := Preset("v9"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestWeightOf(t *testing.T) {
	c := ConfigV3()

	tests := []struct {
		name     string
		cp       rune
		expected int32
	}{
		{"ascii", 'a', 100},
		{"end of first range", 4351, 100},
		{"after first range", 4352, 200},
		{"en quad", 0x2000, 100},
		{"zero width joiner", 0x200D, 100},
		{"between ranges", 0x200E, 200},
		{"left double quote", 0x201C, 100},
		{"prime", 0x2032, 100},
		{"cjk", '中', 200},
		{"emoji", 0x1F600, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.WeightOf(tt.cp); got != tt.expected {
				t.Errorf("WeightOf(%U) = %d, expected %d", tt.cp, got, tt.expected)
			}
		})
	}
}

func TestFirstMatchingRangeWins(t *testing.T) {
	c := ConfigV2()
	c.Ranges = []WeightedRange{
		NewWeightedRange(0, 100, 7),
		NewWeightedRange(50, 200, 9),
	}

	if got := c.WeightOf(60); got != 7 {
		t.Errorf("expected first range weight 7, got %d", got)
	}
	if got := c.WeightOf(150); got != 9 {
		t.Errorf("expected second range weight 9, got %d", got)
	}
}

func TestMutationAndClone(t *testing.T) {
	c := ConfigV3()
	clone := c.Clone()

	c.Scale = 0
	c.Ranges[0].Weight = 1

	if clone.Scale != 100 {
		t.Error("clone shares scalar fields with original")
	}
	if clone.Ranges[0].Weight != 100 {
		t.Error("clone shares ranges with original")
	}
	if !c.Degenerate() {
		t.Error("scale 0 should be degenerate")
	}
	if clone.Equal(c) {
		t.Error("modified configuration should not equal clone")
	}
	if !clone.Equal(ConfigV3()) {
		t.Error("clone should equal a fresh v3")
	}
}

func checkFixture(t *testing.T, c *Configuration, emoji bool) {
	t.Helper()

	if c.Version != 42 {
		t.Errorf("Version = %d, expected 42", c.Version)
	}
	if c.MaxWeightedTweetLength != 400 {
		t.Errorf("MaxWeightedTweetLength = %d, expected 400", c.MaxWeightedTweetLength)
	}
	if c.Scale != 43 {
		t.Errorf("Scale = %d, expected 43", c.Scale)
	}
	if c.DefaultWeight != 213 {
		t.Errorf("DefaultWeight = %d, expected 213", c.DefaultWeight)
	}
	if c.TransformedURLLength != 32 {
		t.Errorf("TransformedURLLength = %d, expected 32", c.TransformedURLLength)
	}
	if c.EmojiParsingEnabled != emoji {
		t.Errorf("EmojiParsingEnabled = %v, expected %v", c.EmojiParsingEnabled, emoji)
	}
	if len(c.Ranges) != 1 {
		t.Fatalf("expected 1 range, got %d", len(c.Ranges))
	}
	if c.Ranges[0] != NewWeightedRange(0, 4351, 200) {
		t.Errorf("unexpected range %+v", c.Ranges[0])
	}
}

func TestFromJSON(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "config.json"))
	if err != nil {
		t.Fatal(err)
	}

	c, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	checkFixture(t, c, false)
}

func TestFromYAML(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	c, err := FromYAML(data)
	if err != nil {
		t.Fatalf("FromYAML failed: %v", err)
	}
	checkFixture(t, c, true)
}

func TestFromPath(t *testing.T) {
	tests := []struct {
		file  string
		emoji bool
	}{
		{"config.json", false},
		{"config.yaml", true},
		{"config.toml", false},
		{"config.weights", false},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			c, err := FromPath(filepath.Join("testdata", tt.file))
			if err != nil {
				t.Fatalf("FromPath failed: %v", err)
			}
			checkFixture(t, c, tt.emoji)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		load    func() (*Configuration, error)
		wantErr error
	}{
		{
			name:    "malformed json",
			load:    func() (*Configuration, error) { return FromJSON([]byte(`{"version": `)) },
			wantErr: ErrMalformed,
		},
		{
			name:    "wrong type",
			load:    func() (*Configuration, error) { return FromJSON([]byte(`{"version": "two"}`)) },
			wantErr: ErrMalformed,
		},
		{
			name: "missing scale",
			load: func() (*Configuration, error) {
				return FromJSON([]byte(`{"version": 2, "maxWeightedTweetLength": 280, "defaultWeight": 200, "transformedURLLength": 23}`))
			},
			wantErr: ErrMissingField,
		},
		{
			name: "range without weight",
			load: func() (*Configuration, error) {
				return FromJSON([]byte(`{"version": 2, "maxWeightedTweetLength": 280, "scale": 100, "defaultWeight": 200, "transformedURLLength": 23, "ranges": [{"start": 0, "end": 10}]}`))
			},
			wantErr: ErrMissingField,
		},
		{
			name:    "malformed yaml",
			load:    func() (*Configuration, error) { return FromYAML([]byte("version: [")) },
			wantErr: ErrMalformed,
		},
		{
			name:    "missing field file",
			load:    func() (*Configuration, error) { return FromPath(filepath.Join("testdata", "missing_scale.json")) },
			wantErr: ErrMissingField,
		},
		{
			name:    "broken file",
			load:    func() (*Configuration, error) { return FromPath(filepath.Join("testdata", "broken.json")) },
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.load()
			if err == nil {
				t.Fatalf("expected error, got configuration %+v", c)
			}
			if c != nil {
				t.Error("configuration must not be returned on error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFromPathMissingFile(t *testing.T) {
	_, err := FromPath(filepath.Join("testdata", "does-not-exist.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrMalformed) || errors.Is(err, ErrMissingField) {
		t.Errorf("missing file should not be reported as a descriptor error: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	original := ConfigV3()

	data, err := original.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"maxWeightedTweetLength": 280`) {
		t.Errorf("unexpected JSON field naming: %s", data)
	}
	if !strings.Contains(string(data), `"start": 8192`) {
		t.Errorf("ranges should be written flat: %s", data)
	}

	decoded, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("JSON round trip changed configuration: %+v", decoded)
	}

	yamlData, err := original.ToYAML()
	if err != nil {
		t.Fatalf("ToYAML failed: %v", err)
	}
	decoded, err = FromYAML(yamlData)
	if err != nil {
		t.Fatalf("FromYAML failed: %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("YAML round trip changed configuration: %+v", decoded)
	}
}
