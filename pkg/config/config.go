// Package config holds the weighting rules used to measure message length.
package config

import "fmt"

// Range is an inclusive range of Unicode scalar values.
type Range struct {
	Start int32 `json:"start" yaml:"start"`
	End   int32 `json:"end" yaml:"end"`
}

// NewRange creates a range covering start through end.
func NewRange(start, end int32) Range {
	return Range{Start: start, End: end}
}

// Contains reports whether the code point falls inside the range.
func (r Range) Contains(cp int32) bool {
	return cp >= r.Start && cp <= r.End
}

// WeightedRange assigns a weight to every code point of a range.
// Its serialized form is flat: {"start": 0, "end": 4351, "weight": 100}.
type WeightedRange struct {
	Range  Range
	Weight int32
}

// NewWeightedRange creates a weighted range.
func NewWeightedRange(start, end, weight int32) WeightedRange {
	return WeightedRange{Range: NewRange(start, end), Weight: weight}
}

// Contains reports whether the code point is weighted by this range.
func (wr WeightedRange) Contains(cp int32) bool {
	return wr.Range.Contains(cp)
}

// Configuration describes how a message is weighted and when it is too long.
// Fields may be changed freely by the owner; nothing is checked on assignment.
// A Configuration must not be mutated while it is in use by another goroutine.
type Configuration struct {
	Version                int32           `json:"version" yaml:"version"`
	MaxWeightedTweetLength int32           `json:"maxWeightedTweetLength" yaml:"maxWeightedTweetLength"`
	Scale                  int32           `json:"scale" yaml:"scale"`
	DefaultWeight          int32           `json:"defaultWeight" yaml:"defaultWeight"`
	TransformedURLLength   int32           `json:"transformedURLLength" yaml:"transformedURLLength"`
	EmojiParsingEnabled    bool            `json:"emojiParsingEnabled" yaml:"emojiParsingEnabled"`
	Ranges                 []WeightedRange `json:"ranges" yaml:"ranges"`
}

// DefaultRanges returns the weighted ranges shared by the v2 and v3 presets:
// Latin through Ethiopic, and the general punctuation spaces, dashes, quotes
// and primes.
func DefaultRanges() []WeightedRange {
	return []WeightedRange{
		NewWeightedRange(0, 4351, 100),
		NewWeightedRange(8192, 8205, 100),
		NewWeightedRange(8208, 8223, 100),
		NewWeightedRange(8242, 8247, 100),
	}
}

// ConfigV1 is the legacy configuration: every code point counts one and the
// limit is 140.
func ConfigV1() *Configuration {
	return &Configuration{
		Version:                1,
		MaxWeightedTweetLength: 140,
		Scale:                  1,
		DefaultWeight:          1,
		TransformedURLLength:   23,
		EmojiParsingEnabled:    false,
		Ranges:                 []WeightedRange{},
	}
}

// ConfigV2 weights code points outside the default ranges double.
func ConfigV2() *Configuration {
	return &Configuration{
		Version:                2,
		MaxWeightedTweetLength: 280,
		Scale:                  100,
		DefaultWeight:          200,
		TransformedURLLength:   23,
		EmojiParsingEnabled:    false,
		Ranges:                 DefaultRanges(),
	}
}

// ConfigV3 is ConfigV2 with emoji sequences counted as a single unit.
func ConfigV3() *Configuration {
	c := ConfigV2()
	c.Version = 3
	c.EmojiParsingEnabled = true
	return c
}

// Default returns the current configuration (v3).
func Default() *Configuration {
	return ConfigV3()
}

// Preset returns the named preset. Accepted names are "v1", "v2", "v3" and
// "default".
func Preset(name string) (*Configuration, error) {
	switch name {
	case "v1", "1":
		return ConfigV1(), nil
	case "v2", "2":
		return ConfigV2(), nil
	case "v3", "3", "default", "":
		return ConfigV3(), nil
	default:
		return nil, fmt.Errorf("unknown configuration preset: %s", name)
	}
}

// PresetNames lists the names accepted by Preset.
func PresetNames() []string {
	return []string{"v1", "v2", "v3"}
}

// Clone returns a deep copy.
func (c *Configuration) Clone() *Configuration {
	clone := *c
	clone.Ranges = append([]WeightedRange(nil), c.Ranges...)
	return &clone
}

// WeightOf returns the weight of a single code point: the weight of the first
// range containing it, or DefaultWeight.
func (c *Configuration) WeightOf(cp rune) int32 {
	for _, r := range c.Ranges {
		if r.Contains(int32(cp)) {
			return r.Weight
		}
	}
	return c.DefaultWeight
}

// ScaledMaxWeightedLength is the limit expressed in weight units.
func (c *Configuration) ScaledMaxWeightedLength() int64 {
	return int64(c.MaxWeightedTweetLength) * int64(c.Scale)
}

// IsLegacy reports whether the configuration uses the plain per-code-point
// count of version 1, where links are not shortened.
func (c *Configuration) IsLegacy() bool {
	return c.Version <= 1
}

// Degenerate reports whether the configuration cannot produce a meaningful
// verdict because the scale or limit is not positive.
func (c *Configuration) Degenerate() bool {
	return c.Scale <= 0 || c.MaxWeightedTweetLength <= 0
}

// Equal reports whether two configurations hold the same values.
func (c *Configuration) Equal(other *Configuration) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Version != other.Version ||
		c.MaxWeightedTweetLength != other.MaxWeightedTweetLength ||
		c.Scale != other.Scale ||
		c.DefaultWeight != other.DefaultWeight ||
		c.TransformedURLLength != other.TransformedURLLength ||
		c.EmojiParsingEnabled != other.EmojiParsingEnabled ||
		len(c.Ranges) != len(other.Ranges) {
		return false
	}
	for i := range c.Ranges {
		if c.Ranges[i] != other.Ranges[i] {
			return false
		}
	}
	return true
}
