package extractor

import (
	"math"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/btraven00/twtext/internal/tld"
	"github.com/btraven00/twtext/pkg/config"
)

// PermillageSaturated is reported as the permillage when the configuration
// has no usable scale or limit.
const PermillageSaturated = math.MaxInt32

// ValidatingExtractor extracts entities and measures the weighted length of
// the same text in one pass. Input is NFC normalized first unless disabled;
// entity offsets then refer to the normalized text.
type ValidatingExtractor struct {
	extractor *Extractor
	config    *config.Configuration
}

// NewValidating creates a validating extractor for cfg.
func NewValidating(cfg *config.Configuration, options Options) *ValidatingExtractor {
	return NewValidatingWithMatcher(cfg, options, tld.Default())
}

// NewValidatingWithMatcher creates a validating extractor that validates
// hosts against m.
func NewValidatingWithMatcher(cfg *config.Configuration, options Options, m *tld.Matcher) *ValidatingExtractor {
	if cfg == nil {
		cfg = config.Default()
	}
	return &ValidatingExtractor{
		extractor: NewWithMatcher(options, m),
		config:    cfg,
	}
}

// Config returns the configuration used for weighting.
func (v *ValidatingExtractor) Config() *config.Configuration {
	return v.config
}

// Normalize reports whether input is NFC normalized before scanning.
func (v *ValidatingExtractor) Normalize() bool {
	return v.extractor.options.Normalize
}

// SetNormalize enables or disables NFC normalization.
func (v *ValidatingExtractor) SetNormalize(enabled bool) {
	v.extractor.options.Normalize = enabled
}

// SetExtractURLsWithoutProtocol enables or disables bare domains.
func (v *ValidatingExtractor) SetExtractURLsWithoutProtocol(enabled bool) {
	v.extractor.SetExtractURLsWithoutProtocol(enabled)
}

// ExtractEntitiesWithIndices returns URLs, hashtags, cashtags, lists and
// mentions with the length report.
func (v *ValidatingExtractor) ExtractEntitiesWithIndices(text string) ExtractResult {
	return v.run(text, false, v.extractor.keepEntity, true)
}

// ExtractFederatedEntitiesWithIndices also includes federated mentions.
func (v *ValidatingExtractor) ExtractFederatedEntitiesWithIndices(text string) ExtractResult {
	return v.run(text, true, v.extractor.keepEntity, true)
}

// ExtractMentionedScreennamesWithIndices returns mentions with the length report.
func (v *ValidatingExtractor) ExtractMentionedScreennamesWithIndices(text string) ExtractResult {
	return v.run(text, false, keepMention, true)
}

// ExtractMentionsOrListsWithIndices returns mentions and lists with the length report.
func (v *ValidatingExtractor) ExtractMentionsOrListsWithIndices(text string) ExtractResult {
	return v.run(text, false, keepMentionOrList, true)
}

// ExtractFederatedMentionsWithIndices returns ordinary and federated mentions
// with the length report.
func (v *ValidatingExtractor) ExtractFederatedMentionsWithIndices(text string) ExtractResult {
	return v.run(text, true, keepFederatedMention, true)
}

// ExtractURLsWithIndices returns URLs with the length report.
func (v *ValidatingExtractor) ExtractURLsWithIndices(text string) ExtractResult {
	return v.run(text, false, v.extractor.keepURL, true)
}

// ExtractHashtagsWithIndices returns hashtags with the length report.
func (v *ValidatingExtractor) ExtractHashtagsWithIndices(text string) ExtractResult {
	return v.run(text, false, keepHashtag, true)
}

// ExtractCashtagsWithIndices returns cashtags with the length report.
func (v *ValidatingExtractor) ExtractCashtagsWithIndices(text string) ExtractResult {
	return v.run(text, false, keepCashtag, true)
}

// ExtractReplyUsername returns the leading mention, if any, with the length report.
func (v *ValidatingExtractor) ExtractReplyUsername(text string) MentionResult {
	runes, tokens, origLen := v.prepare(text, false)
	return MentionResult{
		ParseResults: v.measure(runes, tokens, origLen, true),
		Mention:      replyMention(runes, tokens),
	}
}

// Parse measures text. With extractURLs false every URL is charged per
// character like ordinary text.
func (v *ValidatingExtractor) Parse(text string, extractURLs bool) ParseResults {
	runes, tokens, origLen := v.prepare(text, false)
	return v.measure(runes, tokens, origLen, extractURLs)
}

// ExtractScan measures text without returning entities.
func (v *ValidatingExtractor) ExtractScan(text string) ExtractResult {
	return v.run(text, false, func(token) bool { return false }, false)
}

// prepare normalizes and scans text. It returns the scanned code points, the
// tokens and the code point length of the original input.
func (v *ValidatingExtractor) prepare(text string, federated bool) ([]rune, []token, int) {
	origLen := utf8.RuneCountInString(text)
	if v.Normalize() && !norm.NFC.IsNormalString(text) {
		text = norm.NFC.String(text)
	}
	runes, tokens := v.extractor.tokenize(text, federated)
	return runes, tokens, origLen
}

func (v *ValidatingExtractor) run(text string, federated bool, keep func(token) bool, extractURLs bool) ExtractResult {
	runes, tokens, origLen := v.prepare(text, federated)
	entities := make([]Entity, 0, len(tokens))
	for _, t := range tokens {
		if t.isEntity() && keep(t) {
			entities = append(entities, newEntity(runes, t))
		}
	}
	return ExtractResult{
		ParseResults: v.measure(runes, tokens, origLen, extractURLs),
		Entities:     entities,
	}
}

// measure computes the length report for scanned text.
func (v *ValidatingExtractor) measure(runes []rune, tokens []token, origLen int, extractURLs bool) ParseResults {
	if len(runes) == 0 {
		return ParseResults{}
	}

	cfg := v.config
	m := newMetrics(cfg)
	discount := !cfg.IsLegacy()

	pos := 0
	for _, t := range tokens {
		m.addText(runes[pos:t.start])
		pos = t.start

		switch {
		case t.kind == tokInvalidChar:
			// The character itself is still weighted as text.
			m.valid = false
		case t.kind == tokEmoji && discount && cfg.EmojiParsingEnabled:
			m.addEmoji(t.end - t.start)
			pos = t.end
		case discount && extractURLs && v.extractor.keepURL(t):
			m.addURL(t.end - t.start)
			pos = t.end
		}
	}
	m.addText(runes[pos:])

	return m.results(origLen - len(runes))
}

// metrics accumulates the weight of a message and the offsets that fit.
type metrics struct {
	cfg         *config.Configuration
	limit       int64
	valid       bool
	sum         int64
	offset      int
	validOffset int
}

func newMetrics(cfg *config.Configuration) *metrics {
	return &metrics{
		cfg:   cfg,
		limit: cfg.ScaledMaxWeightedLength(),
		valid: true,
	}
}

// advance moves the offsets over n code points. The valid offset only moves
// while the text so far is valid and within the limit.
func (m *metrics) advance(n int) {
	m.offset += n
	if m.valid && m.sum <= m.limit {
		m.validOffset += n
	}
}

func (m *metrics) addText(rs []rune) {
	for _, r := range rs {
		m.sum += int64(m.cfg.WeightOf(r))
		m.advance(1)
	}
}

// addEmoji charges a whole emoji sequence the default weight once.
func (m *metrics) addEmoji(n int) {
	m.sum += int64(m.cfg.DefaultWeight)
	m.advance(n)
}

// addURL charges a URL the length of its shortened form.
func (m *metrics) addURL(n int) {
	m.sum += int64(m.cfg.TransformedURLLength) * int64(m.cfg.Scale)
	m.advance(n)
}

func (m *metrics) results(normalizationOffset int) ParseResults {
	res := ParseResults{
		WeightedSum:      m.sum,
		WeightedLength:   clampInt(m.sum),
		DisplayTextRange: TextRange{Start: 0, End: m.offset + normalizationOffset - 1},
		ValidTextRange:   TextRange{Start: 0, End: m.validOffset + normalizationOffset - 1},
	}
	if m.cfg.Scale > 0 {
		res.WeightedLength = clampInt(m.sum / int64(m.cfg.Scale))
	}

	if m.cfg.Degenerate() {
		res.Permillage = PermillageSaturated
		return res
	}
	res.IsValid = m.valid && m.sum <= m.limit
	res.Permillage = clampInt(m.sum * 1000 / m.limit)
	return res
}

func clampInt(n int64) int {
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < 0:
		return 0
	}
	return int(n)
}
