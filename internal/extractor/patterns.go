package extractor

import (
	"regexp"
)

// EntityRule documents one kind of entity the scanner recognizes, with
// examples that must and must not produce it.
type EntityRule struct {
	Name            string     `json:"name"`
	Type            EntityType `json:"type"`
	Trigger         string     `json:"trigger"`
	Description     string     `json:"description"`
	Examples        []string   `json:"examples"`
	Counterexamples []string   `json:"counterexamples,omitempty"`
}

// Rules returns the recognized entity kinds in scanning priority order.
func Rules() []EntityRule {
	return []EntityRule{
		{
			Name:        "Federated mention",
			Type:        EntityTypeFederatedMention,
			Trigger:     "@",
			Description: "Account on another server: @user@domain, reported only by federated queries",
			Examples:    []string{"@user@mastodon.social", "@alice@example.org"},
			Counterexamples: []string{
				"@user@",
				"user@mastodon.social",
			},
		},
		{
			Name:        "List",
			Type:        EntityTypeList,
			Trigger:     "@",
			Description: "Screen name followed by /slug; the slug starts with a letter and has up to 25 characters",
			Examples:    []string{"@twitter/team", "@user/my-list_1"},
			Counterexamples: []string{
				"@user/1list",
			},
		},
		{
			Name:        "Mention",
			Type:        EntityTypeMention,
			Trigger:     "@",
			Description: "Up to 20 letters, digits or underscores; not glued to a preceding word, except after RT",
			Examples:    []string{"@alice", "＠alice", "RT@alice", "(@alice)"},
			Counterexamples: []string{
				"user@example.com",
				"@alice-bob",
				"@alicé",
			},
		},
		{
			Name:        "Hashtag",
			Type:        EntityTypeHashtag,
			Trigger:     "#",
			Description: "Letters, marks, digits and joiners with at least one letter; not after a letter or '&'",
			Examples:    []string{"#hashtag", "＃日本語", "#tag_2024", "#café"},
			Counterexamples: []string{
				"#123",
				"&#39;",
				"a#tag",
				"#https://example.com",
			},
		},
		{
			Name:        "Cashtag",
			Type:        EntityTypeCashtag,
			Trigger:     "$",
			Description: "One to six ASCII letters, optionally .X or _X; at the start or after whitespace",
			Examples:    []string{"$CASH", "$BRK.A", "$aapl"},
			Counterexamples: []string{
				"$1234",
				"$TOOLONGX",
				"a$CASH",
			},
		},
		{
			Name:        "URL",
			Type:        EntityTypeURL,
			Trigger:     "http:// or https://",
			Description: "Scheme, host with a known top-level domain, optional port, path, query and fragment",
			Examples: []string{
				"https://example.com",
				"http://example.com/path?q=1#top",
				"https://t.co/abc123",
				"https://例え.jp",
			},
			Counterexamples: []string{
				"https://example.notatld",
				"http://localhost",
			},
		},
		{
			Name:        "URL without protocol",
			Type:        EntityTypeURL,
			Trigger:     "letter or digit",
			Description: "Bare domain ending in a known top-level domain; enabled by default",
			Examples:    []string{"example.com", "www.example.co.jp/path", "example.みんな"},
			Counterexamples: []string{
				"example.notatld",
				"user@example.com",
				"file.txt",
			},
		},
	}
}

// Text cleaners applied to converted documents before scanning.
var (
	nullBytes   = regexp.MustCompile(`\x00+`)
	inlineSpace = regexp.MustCompile(`[ \t\f\v]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
)

// cleanText normalizes whitespace produced by document converters.
func cleanText(text string) string {
	text = nullBytes.ReplaceAllString(text, "")
	text = inlineSpace.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return text
}
