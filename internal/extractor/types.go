package extractor

import (
	"strings"
	"unicode/utf8"
)

// EntityType represents the kind of entity found in a message
type EntityType string

const (
	EntityTypeMention          EntityType = "mention"
	EntityTypeList             EntityType = "list"
	EntityTypeHashtag          EntityType = "hashtag"
	EntityTypeCashtag          EntityType = "cashtag"
	EntityTypeURL              EntityType = "url"
	EntityTypeFederatedMention EntityType = "federated_mention"
)

// EntityTypes lists every entity type in the order used for reporting.
func EntityTypes() []EntityType {
	return []EntityType{
		EntityTypeMention,
		EntityTypeList,
		EntityTypeHashtag,
		EntityTypeCashtag,
		EntityTypeURL,
		EntityTypeFederatedMention,
	}
}

// ParseEntityType maps a user supplied name to an EntityType.
func ParseEntityType(name string) (EntityType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", "_")
	switch name {
	case "mentions":
		name = "mention"
	case "lists":
		name = "list"
	case "hashtags":
		name = "hashtag"
	case "cashtags":
		name = "cashtag"
	case "urls":
		name = "url"
	case "federated", "federatedmention", "federated_mentions":
		name = "federated_mention"
	}
	for _, t := range EntityTypes() {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// Entity is a recognized span of a message. Start and End are code point
// offsets into the input, End exclusive, and Value is exactly the text
// between them, sigil included.
type Entity struct {
	Type     EntityType `json:"type"`
	Value    string     `json:"value"`
	Start    int        `json:"start"`
	End      int        `json:"end"`
	ListSlug string     `json:"list_slug,omitempty"`
}

// Name returns the entity without its sigil: the screen name of a mention or
// list owner, the tag text of a hashtag or cashtag. URLs and federated
// mentions are returned unchanged.
func (e Entity) Name() string {
	switch e.Type {
	case EntityTypeMention, EntityTypeHashtag, EntityTypeCashtag:
		return trimSigil(e.Value)
	case EntityTypeList:
		name := trimSigil(e.Value)
		if i := strings.IndexByte(name, '/'); i >= 0 {
			return name[:i]
		}
		return name
	default:
		return e.Value
	}
}

// Len returns the length of the entity in code points.
func (e Entity) Len() int {
	return e.End - e.Start
}

func trimSigil(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[size:]
}

// TextRange is an inclusive range of code point offsets.
type TextRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ParseResults is the length report attached to every validating extraction.
type ParseResults struct {
	// WeightedSum is the total cost of the message in weight units.
	WeightedSum int64 `json:"weighted_sum"`
	// WeightedLength is WeightedSum expressed in characters (WeightedSum / scale).
	WeightedLength   int       `json:"weighted_length"`
	Permillage       int       `json:"permillage"`
	IsValid          bool      `json:"is_valid"`
	DisplayTextRange TextRange `json:"display_text_range"`
	ValidTextRange   TextRange `json:"valid_text_range"`
}

// ExtractResult packages entities with the length report of the same text.
type ExtractResult struct {
	ParseResults ParseResults `json:"parse_results"`
	Entities     []Entity     `json:"entities"`
}

// MentionResult packages the reply mention, if any, with the length report.
type MentionResult struct {
	ParseResults ParseResults `json:"parse_results"`
	Mention      *Entity      `json:"mention,omitempty"`
}

// Options configures an Extractor.
type Options struct {
	// ExtractURLsWithoutProtocol enables bare domains such as "example.com".
	ExtractURLsWithoutProtocol bool `json:"extract_urls_without_protocol"`
	// Normalize applies NFC before validating extraction.
	Normalize bool `json:"normalize"`
}

// DefaultOptions returns default extraction options
func DefaultOptions() Options {
	return Options{
		ExtractURLsWithoutProtocol: true,
		Normalize:                  true,
	}
}
