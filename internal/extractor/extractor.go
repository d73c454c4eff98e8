package extractor

import (
	"unicode"

	"github.com/btraven00/twtext/internal/tld"
)

// Extractor finds entities in message text. It holds no per-call state and
// may be shared between goroutines once configured.
type Extractor struct {
	tlds    *tld.Matcher
	options Options
}

// New creates an extractor backed by the built-in top-level domain list.
func New(options Options) *Extractor {
	return NewWithMatcher(options, tld.Default())
}

// NewWithMatcher creates an extractor that validates hosts against m.
func NewWithMatcher(options Options, m *tld.Matcher) *Extractor {
	return &Extractor{
		tlds:    m,
		options: options,
	}
}

// ExtractURLsWithoutProtocol reports whether bare domains are extracted.
func (e *Extractor) ExtractURLsWithoutProtocol() bool {
	return e.options.ExtractURLsWithoutProtocol
}

// SetExtractURLsWithoutProtocol enables or disables bare domains such as
// "example.com".
func (e *Extractor) SetExtractURLsWithoutProtocol(enabled bool) {
	e.options.ExtractURLsWithoutProtocol = enabled
}

// Options returns the extractor configuration.
func (e *Extractor) Options() Options {
	return e.options
}

// tokenize scans text once and returns its code points with every token.
// Federated mentions are only recognized when federated is set, so that
// "@user@domain" reads as the plain mention "@user" otherwise.
func (e *Extractor) tokenize(text string, federated bool) ([]rune, []token) {
	if text == "" {
		return nil, nil
	}
	runes := []rune(text)
	s := newScanner(runes, e.tlds)
	s.federated = federated
	return runes, s.scan()
}

func (e *Extractor) extract(text string, federated bool, keep func(token) bool) []Entity {
	runes, tokens := e.tokenize(text, federated)
	entities := make([]Entity, 0, len(tokens))
	for _, t := range tokens {
		if t.isEntity() && keep(t) {
			entities = append(entities, newEntity(runes, t))
		}
	}
	return entities
}

func newEntity(runes []rune, t token) Entity {
	ent := Entity{
		Type:  t.entityType(),
		Value: string(runes[t.start:t.end]),
		Start: t.start,
		End:   t.end,
	}
	if t.kind == tokList {
		ent.ListSlug = string(runes[t.slugStart-1 : t.end])
	}
	return ent
}

func (e *Extractor) keepURL(t token) bool {
	return t.kind == tokURL || t.kind == tokBareURL && e.options.ExtractURLsWithoutProtocol
}

func (e *Extractor) keepEntity(t token) bool {
	return t.kind != tokURL && t.kind != tokBareURL || e.keepURL(t)
}

func keepMention(t token) bool {
	return t.kind == tokMention
}

func keepMentionOrList(t token) bool {
	return t.kind == tokMention || t.kind == tokList
}

func keepList(t token) bool {
	return t.kind == tokList
}

func keepFederatedMention(t token) bool {
	return t.kind == tokMention || t.kind == tokFederatedMention
}

func keepHashtag(t token) bool {
	return t.kind == tokHashtag
}

func keepCashtag(t token) bool {
	return t.kind == tokCashtag
}

// ExtractEntitiesWithIndices returns URLs, hashtags, cashtags, lists and
// mentions in text order. Federated mentions are left out.
func (e *Extractor) ExtractEntitiesWithIndices(text string) []Entity {
	return e.extract(text, false, e.keepEntity)
}

// ExtractFederatedEntitiesWithIndices is ExtractEntitiesWithIndices with
// federated mentions included.
func (e *Extractor) ExtractFederatedEntitiesWithIndices(text string) []Entity {
	return e.extract(text, true, e.keepEntity)
}

// ExtractMentionedScreennames returns the screen names mentioned in text,
// without the at sign. List references are not included.
func (e *Extractor) ExtractMentionedScreennames(text string) []string {
	return names(e.ExtractMentionedScreennamesWithIndices(text))
}

// ExtractMentionedScreennamesWithIndices returns the mentions of text.
func (e *Extractor) ExtractMentionedScreennamesWithIndices(text string) []Entity {
	return e.extract(text, false, keepMention)
}

// ExtractMentionsOrListsWithIndices returns mentions and list references.
func (e *Extractor) ExtractMentionsOrListsWithIndices(text string) []Entity {
	return e.extract(text, false, keepMentionOrList)
}

// ExtractListsWithIndices returns list references such as "@user/list".
func (e *Extractor) ExtractListsWithIndices(text string) []Entity {
	return e.extract(text, false, keepList)
}

// ExtractFederatedMentions returns ordinary mentions, without the at sign,
// and federated mentions as written ("@user@example.social").
func (e *Extractor) ExtractFederatedMentions(text string) []string {
	return names(e.ExtractFederatedMentionsWithIndices(text))
}

// ExtractFederatedMentionsWithIndices returns ordinary and federated mentions.
func (e *Extractor) ExtractFederatedMentionsWithIndices(text string) []Entity {
	return e.extract(text, true, keepFederatedMention)
}

// ExtractURLs returns the URLs of text.
func (e *Extractor) ExtractURLs(text string) []string {
	return names(e.ExtractURLsWithIndices(text))
}

// ExtractURLsWithIndices returns the URL entities of text.
func (e *Extractor) ExtractURLsWithIndices(text string) []Entity {
	return e.extract(text, false, e.keepURL)
}

// ExtractHashtags returns the hashtags of text without the hash sign.
func (e *Extractor) ExtractHashtags(text string) []string {
	return names(e.ExtractHashtagsWithIndices(text))
}

// ExtractHashtagsWithIndices returns the hashtag entities of text.
func (e *Extractor) ExtractHashtagsWithIndices(text string) []Entity {
	return e.extract(text, false, keepHashtag)
}

// ExtractCashtags returns the cashtags of text without the dollar sign.
func (e *Extractor) ExtractCashtags(text string) []string {
	return names(e.ExtractCashtagsWithIndices(text))
}

// ExtractCashtagsWithIndices returns the cashtag entities of text.
func (e *Extractor) ExtractCashtagsWithIndices(text string) []Entity {
	return e.extract(text, false, keepCashtag)
}

// ExtractReplyUsername returns the mention a reply starts with: the first
// entity of text, when it is a screen name preceded only by whitespace.
func (e *Extractor) ExtractReplyUsername(text string) *Entity {
	runes, tokens := e.tokenize(text, false)
	return replyMention(runes, tokens)
}

func replyMention(runes []rune, tokens []token) *Entity {
	lead := 0
	for lead < len(runes) && unicode.IsSpace(runes[lead]) {
		lead++
	}
	for _, t := range tokens {
		if !t.isEntity() {
			continue
		}
		if t.start != lead || t.kind != tokMention {
			return nil
		}
		ent := newEntity(runes, t)
		return &ent
	}
	return nil
}

func names(entities []Entity) []string {
	out := make([]string, len(entities))
	for i, ent := range entities {
		out[i] = ent.Name()
	}
	return out
}

// IsURL reports whether the whole of text is a single URL. With withProtocol
// the URL must start with "http://" or "https://"; otherwise it must have no
// protocol. The ExtractURLsWithoutProtocol toggle does not apply.
func (e *Extractor) IsURL(text string, withProtocol bool) bool {
	runes, tokens := e.tokenize(text, false)
	want := tokBareURL
	if withProtocol {
		want = tokURL
	}

	found := false
	for _, t := range tokens {
		if !t.isEntity() {
			continue
		}
		if found || t.kind != want || t.start != 0 || t.end != len(runes) {
			return false
		}
		found = true
	}
	return found
}
