package extractor

import (
	"strings"
	"testing"

	"github.com/btraven00/twtext/pkg/config"
)

func TestParseWeightedLength(t *testing.T) {
	testCases := []struct {
		name     string
		config   *config.Configuration
		text     string
		expected int
	}{
		{"v1 counts code points", config.ConfigV1(), "héllo 日本 😀", 10},
		{"v1 charges URLs per character", config.ConfigV1(), "https://example.com", 19},
		{"v2 latin", config.ConfigV2(), "hello", 5},
		{"v2 CJK counts double", config.ConfigV2(), "日本", 4},
		{"v2 emoji per code point", config.ConfigV2(), "😀", 2},
		{"v2 ZWJ family", config.ConfigV2(), "👨‍👩‍👧", 8},
		{"v3 emoji counts once", config.ConfigV3(), "😀", 2},
		{"v3 ZWJ family counts once", config.ConfigV3(), "👨‍👩‍👧", 2},
		{"v3 keycap", config.ConfigV3(), "1️⃣", 2},
		{"v3 flag", config.ConfigV3(), "🇯🇵", 2},
		{"v3 URL", config.ConfigV3(), "https://example.com/a/very/long/path/that/is/longer/than/23", 23},
		{"v3 short URL", config.ConfigV3(), "http://a.co", 23},
		{"v3 bare URL", config.ConfigV3(), "example.com", 23},
		{"v3 text and URL", config.ConfigV3(), "see https://example.com", 27},
		{"v3 general punctuation", config.ConfigV3(), "—“”", 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewValidating(tc.config, DefaultOptions())
			res := v.Parse(tc.text, true)
			if res.WeightedLength != tc.expected {
				t.Errorf("WeightedLength(%q) = %d, want %d", tc.text, res.WeightedLength, tc.expected)
			}
			if !res.IsValid {
				t.Errorf("Expected %q to be valid", tc.text)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	v := NewValidating(config.Default(), DefaultOptions())

	res := v.Parse(strings.Repeat("a", 280), true)
	if !res.IsValid {
		t.Error("Expected 280 characters to be valid")
	}
	if res.Permillage != 1000 {
		t.Errorf("Permillage = %d, want 1000", res.Permillage)
	}
	if res.WeightedSum != 28000 {
		t.Errorf("WeightedSum = %d, want 28000", res.WeightedSum)
	}
	if res.DisplayTextRange != (TextRange{0, 279}) || res.ValidTextRange != (TextRange{0, 279}) {
		t.Errorf("ranges = %+v %+v", res.DisplayTextRange, res.ValidTextRange)
	}

	res = v.Parse(strings.Repeat("a", 281), true)
	if res.IsValid {
		t.Error("Expected 281 characters to be invalid")
	}
	if res.Permillage != 1003 {
		t.Errorf("Permillage = %d, want 1003", res.Permillage)
	}
	if res.DisplayTextRange != (TextRange{0, 280}) {
		t.Errorf("DisplayTextRange = %+v", res.DisplayTextRange)
	}
	if res.ValidTextRange != (TextRange{0, 279}) {
		t.Errorf("ValidTextRange = %+v", res.ValidTextRange)
	}

	v1 := NewValidating(config.ConfigV1(), DefaultOptions())
	if res := v1.Parse(strings.Repeat("a", 141), true); res.IsValid || res.WeightedLength != 141 {
		t.Errorf("v1 141 characters: %+v", res)
	}
}

func TestParseWithoutURLExtraction(t *testing.T) {
	v := NewValidating(config.Default(), DefaultOptions())
	text := "https://example.com"

	if res := v.Parse(text, true); res.WeightedLength != 23 {
		t.Errorf("with URLs: %d", res.WeightedLength)
	}
	if res := v.Parse(text, false); res.WeightedLength != 19 {
		t.Errorf("without URLs: %d", res.WeightedLength)
	}

	v.SetExtractURLsWithoutProtocol(false)
	if res := v.Parse("example.com", true); res.WeightedLength != 11 {
		t.Errorf("bare URL with toggle off: %d", res.WeightedLength)
	}
}

func TestParseInvalidCharacters(t *testing.T) {
	v := NewValidating(config.Default(), DefaultOptions())

	for _, text := range []string{"abc\uFFFE", "\uFEFFabc", "a\uFFFFb"} {
		res := v.Parse(text, true)
		if res.IsValid {
			t.Errorf("Expected %q to be invalid", text)
		}
		if res.WeightedLength == 0 {
			t.Errorf("Expected %q to be weighted", text)
		}
	}

	res := v.Parse("ab\uFFFEcd", true)
	if res.ValidTextRange != (TextRange{0, 1}) {
		t.Errorf("ValidTextRange = %+v, want {0 1}", res.ValidTextRange)
	}
}

func TestParseEmptyAndDegenerate(t *testing.T) {
	v := NewValidating(config.Default(), DefaultOptions())
	if res := v.Parse("", true); res != (ParseResults{}) {
		t.Errorf("empty text: %+v", res)
	}

	cfg := config.Default()
	cfg.Scale = 0
	res := NewValidating(cfg, DefaultOptions()).Parse("hello", true)
	if res.IsValid {
		t.Error("Expected zero scale to be invalid")
	}
	if res.Permillage != PermillageSaturated {
		t.Errorf("Permillage = %d", res.Permillage)
	}
	if res.WeightedSum != 500 {
		t.Errorf("WeightedSum = %d, want 500", res.WeightedSum)
	}

	cfg = config.Default()
	cfg.MaxWeightedTweetLength = 0
	if res := NewValidating(cfg, DefaultOptions()).Parse("hello", true); res.IsValid || res.Permillage != PermillageSaturated {
		t.Errorf("zero limit: %+v", res)
	}
}

func TestParseNormalization(t *testing.T) {
	v := NewValidating(config.Default(), DefaultOptions())
	decomposed := "cafe\u0301 #cafe\u0301"

	result := v.ExtractHashtagsWithIndices(decomposed)
	if len(result.Entities) != 1 {
		t.Fatalf("Expected one hashtag, got %+v", result.Entities)
	}
	if ent := result.Entities[0]; ent.Value != "#café" || ent.Start != 5 || ent.End != 10 {
		t.Errorf("hashtag = %+v", ent)
	}
	if result.ParseResults.WeightedLength != 10 {
		t.Errorf("WeightedLength = %d, want 10", result.ParseResults.WeightedLength)
	}
	// Ranges refer to the original input length.
	if result.ParseResults.DisplayTextRange != (TextRange{0, 11}) {
		t.Errorf("DisplayTextRange = %+v", result.ParseResults.DisplayTextRange)
	}

	v.SetNormalize(false)
	if v.Normalize() {
		t.Fatal("Expected normalization to be disabled")
	}
	if res := v.Parse(decomposed, true); res.WeightedLength != 12 {
		t.Errorf("without NFC: %d", res.WeightedLength)
	}
}

func TestValidatingExtraction(t *testing.T) {
	v := NewValidating(nil, DefaultOptions())
	if !v.Config().Equal(config.Default()) {
		t.Fatal("Expected default configuration")
	}

	text := "@alice #tag $CASH https://example.com @bob@example.social"

	tests := []struct {
		name   string
		result ExtractResult
		count  int
	}{
		{"entities", v.ExtractEntitiesWithIndices(text), 4},
		{"federated entities", v.ExtractFederatedEntitiesWithIndices(text), 5},
		{"mentions", v.ExtractMentionedScreennamesWithIndices(text), 1},
		{"mentions or lists", v.ExtractMentionsOrListsWithIndices(text), 1},
		{"federated mentions", v.ExtractFederatedMentionsWithIndices(text), 2},
		{"urls", v.ExtractURLsWithIndices(text), 1},
		{"hashtags", v.ExtractHashtagsWithIndices(text), 1},
		{"cashtags", v.ExtractCashtagsWithIndices(text), 1},
		{"scan", v.ExtractScan(text), 0},
	}

	expected := v.Parse(text, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.result.Entities) != tt.count {
				t.Errorf("got %d entities: %+v", len(tt.result.Entities), tt.result.Entities)
			}
			if tt.name != "scan" && tt.result.ParseResults != expected {
				t.Errorf("ParseResults = %+v, want %+v", tt.result.ParseResults, expected)
			}
		})
	}
}

func TestValidatingReplyUsername(t *testing.T) {
	v := NewValidating(config.Default(), DefaultOptions())

	res := v.ExtractReplyUsername("@alice thanks")
	if res.Mention == nil || res.Mention.Name() != "alice" {
		t.Errorf("Mention = %+v", res.Mention)
	}
	if res.ParseResults.WeightedLength != 13 {
		t.Errorf("WeightedLength = %d", res.ParseResults.WeightedLength)
	}

	res = v.ExtractReplyUsername("thanks @alice")
	if res.Mention != nil {
		t.Errorf("Expected no reply mention, got %+v", res.Mention)
	}
	if !res.ParseResults.IsValid {
		t.Error("Expected parse results for a message without reply")
	}
}
