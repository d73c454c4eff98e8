package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMalformed is returned when a descriptor cannot be decoded.
	ErrMalformed = errors.New("malformed configuration descriptor")
	// ErrMissingField is returned when a required descriptor field is absent.
	ErrMissingField = errors.New("missing configuration field")
)

// descriptor mirrors the serialized configuration. Pointers distinguish a
// missing field from a zero value.
type descriptor struct {
	Version                *int32            `json:"version" yaml:"version" mapstructure:"version"`
	MaxWeightedTweetLength *int32            `json:"maxWeightedTweetLength" yaml:"maxWeightedTweetLength" mapstructure:"maxWeightedTweetLength"`
	Scale                  *int32            `json:"scale" yaml:"scale" mapstructure:"scale"`
	DefaultWeight          *int32            `json:"defaultWeight" yaml:"defaultWeight" mapstructure:"defaultWeight"`
	TransformedURLLength   *int32            `json:"transformedURLLength" yaml:"transformedURLLength" mapstructure:"transformedURLLength"`
	EmojiParsingEnabled    *bool             `json:"emojiParsingEnabled" yaml:"emojiParsingEnabled" mapstructure:"emojiParsingEnabled"`
	Ranges                 []rangeDescriptor `json:"ranges" yaml:"ranges" mapstructure:"ranges"`
}

type rangeDescriptor struct {
	Start  *int32 `json:"start" yaml:"start" mapstructure:"start"`
	End    *int32 `json:"end" yaml:"end" mapstructure:"end"`
	Weight *int32 `json:"weight" yaml:"weight" mapstructure:"weight"`
}

// flatRange is the serialized form of a WeightedRange.
type flatRange struct {
	Start  int32 `json:"start" yaml:"start"`
	End    int32 `json:"end" yaml:"end"`
	Weight int32 `json:"weight" yaml:"weight"`
}

// MarshalJSON writes the range in its flat form.
func (wr WeightedRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(flatRange{Start: wr.Range.Start, End: wr.Range.End, Weight: wr.Weight})
}

// UnmarshalJSON reads the flat form; all three fields are required.
func (wr *WeightedRange) UnmarshalJSON(data []byte) error {
	var rd rangeDescriptor
	if err := json.Unmarshal(data, &rd); err != nil {
		return err
	}
	r, err := rd.toWeightedRange(0)
	if err != nil {
		return err
	}
	*wr = r
	return nil
}

// MarshalYAML writes the range in its flat form.
func (wr WeightedRange) MarshalYAML() (interface{}, error) {
	return flatRange{Start: wr.Range.Start, End: wr.Range.End, Weight: wr.Weight}, nil
}

// UnmarshalYAML reads the flat form; all three fields are required.
func (wr *WeightedRange) UnmarshalYAML(value *yaml.Node) error {
	var rd rangeDescriptor
	if err := value.Decode(&rd); err != nil {
		return err
	}
	r, err := rd.toWeightedRange(0)
	if err != nil {
		return err
	}
	*wr = r
	return nil
}

func (rd rangeDescriptor) toWeightedRange(index int) (WeightedRange, error) {
	switch {
	case rd.Start == nil:
		return WeightedRange{}, fmt.Errorf("%w: ranges[%d].start", ErrMissingField, index)
	case rd.End == nil:
		return WeightedRange{}, fmt.Errorf("%w: ranges[%d].end", ErrMissingField, index)
	case rd.Weight == nil:
		return WeightedRange{}, fmt.Errorf("%w: ranges[%d].weight", ErrMissingField, index)
	}
	return NewWeightedRange(*rd.Start, *rd.End, *rd.Weight), nil
}

func (d *descriptor) toConfiguration() (*Configuration, error) {
	required := []struct {
		value *int32
		name  string
	}{
		{d.Version, "version"},
		{d.MaxWeightedTweetLength, "maxWeightedTweetLength"},
		{d.Scale, "scale"},
		{d.DefaultWeight, "defaultWeight"},
		{d.TransformedURLLength, "transformedURLLength"},
	}
	for _, field := range required {
		if field.value == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
	}

	c := &Configuration{
		Version:                *d.Version,
		MaxWeightedTweetLength: *d.MaxWeightedTweetLength,
		Scale:                  *d.Scale,
		DefaultWeight:          *d.DefaultWeight,
		TransformedURLLength:   *d.TransformedURLLength,
		Ranges:                 make([]WeightedRange, 0, len(d.Ranges)),
	}
	if d.EmojiParsingEnabled != nil {
		c.EmojiParsingEnabled = *d.EmojiParsingEnabled
	}
	for i, rd := range d.Ranges {
		r, err := rd.toWeightedRange(i)
		if err != nil {
			return nil, err
		}
		c.Ranges = append(c.Ranges, r)
	}
	return c, nil
}

// FromJSON decodes a configuration from its JSON descriptor.
func FromJSON(data []byte) (*Configuration, error) {
	var d descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return d.toConfiguration()
}

// FromYAML decodes a configuration from a YAML descriptor using the same keys
// as the JSON form.
func FromYAML(data []byte) (*Configuration, error) {
	var d descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return d.toConfiguration()
}

// FromPath reads a descriptor file. The format follows the file extension
// (json, yaml, toml, ...); files without a known extension are read as JSON.
func FromPath(path string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if !supportedExt(path) {
		v.SetConfigType("json")
	}

	if err := v.ReadInConfig(); err != nil {
		var parseErr viper.ConfigParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
		}
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	var d descriptor
	if err := v.Unmarshal(&d); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	c, err := d.toConfiguration()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ToJSON encodes the configuration in its descriptor form.
func (c *Configuration) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// ToYAML encodes the configuration in its YAML descriptor form.
func (c *Configuration) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func supportedExt(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range viper.SupportedExts {
		if e == ext {
			return true
		}
	}
	return false
}
