// Package validators checks whole messages and single entities such as
// usernames, lists, hashtags and URLs.
package validators

import (
	"strings"
	"unicode/utf8"

	"github.com/btraven00/twtext/internal/extractor"
	"github.com/btraven00/twtext/pkg/config"
)

const (
	// MaxTweetLength is the weighted length limit of the current presets.
	MaxTweetLength = 280
	// DefaultShortURLLength is the length of a shortened link.
	DefaultShortURLLength = 23
)

// Validator answers validity questions about messages and entities. It is
// safe for concurrent use as long as its setters are not called meanwhile.
type Validator struct {
	config              *config.Configuration
	extractor           *extractor.Extractor
	parser              *extractor.ValidatingExtractor
	shortURLLength      int
	shortURLLengthHTTPS int
}

// New creates a validator using the default (v3) configuration.
func New() *Validator {
	return NewWithConfig(config.Default())
}

// NewWithConfig creates a validator that weighs messages with cfg.
func NewWithConfig(cfg *config.Configuration) *Validator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Validator{
		config:              cfg,
		extractor:           extractor.New(extractor.DefaultOptions()),
		parser:              extractor.NewValidating(cfg, extractor.DefaultOptions()),
		shortURLLength:      DefaultShortURLLength,
		shortURLLengthHTTPS: DefaultShortURLLength,
	}
}

// Config returns the weighting configuration.
func (v *Validator) Config() *config.Configuration {
	return v.config
}

// ParseTweet measures a message, charging URLs their shortened length.
func (v *Validator) ParseTweet(text string) extractor.ParseResults {
	return v.parser.Parse(text, true)
}

// IsValidTweet reports whether text is non-empty, free of invalid
// characters and within the weighted length limit.
func (v *Validator) IsValidTweet(text string) bool {
	return v.ParseTweet(text).IsValid
}

// IsValidUsername reports whether s is exactly one "@name" mention.
func (v *Validator) IsValidUsername(s string) bool {
	if !hasSigil(s, "@", "＠") {
		return false
	}
	return spansAll(v.extractor.ExtractMentionedScreennamesWithIndices(s), s)
}

// IsValidList reports whether s is exactly one "@name/slug" list reference.
func (v *Validator) IsValidList(s string) bool {
	if !hasSigil(s, "@", "＠") {
		return false
	}
	lists := v.extractor.ExtractMentionsOrListsWithIndices(s)
	return spansAll(lists, s) && lists[0].ListSlug != ""
}

// IsValidHashtag reports whether s is exactly one hashtag.
func (v *Validator) IsValidHashtag(s string) bool {
	if !hasSigil(s, "#", "＃") {
		return false
	}
	return spansAll(v.extractor.ExtractHashtagsWithIndices(s), s)
}

// IsValidURL reports whether s is exactly one URL with an http or https
// protocol and a known top-level domain.
func (v *Validator) IsValidURL(s string) bool {
	return v.extractor.IsURL(s, true)
}

// IsValidURLWithoutProtocol reports whether s is exactly one bare domain URL
// such as "example.com/path".
func (v *Validator) IsValidURLWithoutProtocol(s string) bool {
	return v.extractor.IsURL(s, false)
}

// MaxTweetLength returns the weighted length limit of the configuration.
func (v *Validator) MaxTweetLength() int {
	return int(v.config.MaxWeightedTweetLength)
}

// ShortURLLength returns the length reported for shortened http links.
func (v *Validator) ShortURLLength() int {
	return v.shortURLLength
}

// SetShortURLLength changes the length reported for shortened http links.
func (v *Validator) SetShortURLLength(n int) {
	v.shortURLLength = n
}

// ShortURLLengthHTTPS returns the length reported for shortened https links.
func (v *Validator) ShortURLLengthHTTPS() int {
	return v.shortURLLengthHTTPS
}

// SetShortURLLengthHTTPS changes the length reported for shortened https links.
func (v *Validator) SetShortURLLengthHTTPS(n int) {
	v.shortURLLengthHTTPS = n
}

func hasSigil(s string, sigils ...string) bool {
	for _, sigil := range sigils {
		if strings.HasPrefix(s, sigil) {
			return true
		}
	}
	return false
}

// spansAll reports a single entity covering the whole of s.
func spansAll(entities []extractor.Entity, s string) bool {
	return len(entities) == 1 && entities[0].Start == 0 && entities[0].End == utf8.RuneCountInString(s)
}
