package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btraven00/twtext/internal/checker"
	"github.com/btraven00/twtext/internal/extractor"
)

func TestCheckCommand(t *testing.T) {
	out, err := executeCommand(t, nil, "check", "-o", "json", "hi", "@alice", "#news")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}

	var result checker.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if result.Text != "hi @alice #news" {
		t.Errorf("arguments were not joined: %q", result.Text)
	}
	if !result.Valid || result.Parse.WeightedLength != 15 || len(result.Entities) != 2 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestCheckCommand_Lines(t *testing.T) {
	input := strings.NewReader("first #one\n\n" + strings.Repeat("a", 281) + "\n")

	out, err := executeCommand(t, input, "check", "--stdin", "--lines")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	for _, want := range []string{"📄 stdin:1", "📄 stdin:3", "✅ Status: Valid", "❌ Status:", "✂️  Fits up to:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	input = strings.NewReader("first #one\n" + strings.Repeat("a", 281) + "\n")
	if _, err := executeCommand(t, input, "check", "--stdin", "--lines", "--strict"); err == nil {
		t.Error("Expected --strict to fail on a message that is too long")
	}
}

func TestCheckCommand_NoInput(t *testing.T) {
	if _, err := executeCommand(t, nil, "check"); err != errNoInput {
		t.Errorf("Expected errNoInput, got %v", err)
	}
}

func TestExtractCommand(t *testing.T) {
	out, err := executeCommand(t, nil, "extract", "-o", "json", "hi @alice, see example.com #news $GOOG")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	var records []extractedMessage
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(records) != 1 {
		t.Fatalf("Expected one record, got %d", len(records))
	}

	expected := []extractor.EntityType{
		extractor.EntityTypeMention,
		extractor.EntityTypeURL,
		extractor.EntityTypeHashtag,
		extractor.EntityTypeCashtag,
	}
	entities := records[0].Entities
	if len(entities) != len(expected) {
		t.Fatalf("Expected %d entities, got %+v", len(expected), entities)
	}
	for i, typ := range expected {
		if entities[i].Type != typ {
			t.Errorf("entity %d type = %s, want %s", i, entities[i].Type, typ)
		}
	}
	if records[0].Parse == nil || !records[0].Parse.IsValid {
		t.Errorf("Expected parse results for a text message, got %+v", records[0].Parse)
	}
}

func TestExtractCommand_Filters(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "only hashtags",
			args:     []string{"--only", "hashtags", "#a @b #c"},
			expected: []string{"#a", "#c"},
		},
		{
			name:     "no bare urls",
			args:     []string{"--no-bare-urls", "example.com https://example.org"},
			expected: []string{"https://example.org"},
		},
		{
			name:     "federated",
			args:     []string{"--federated", "ping @bob@example.social"},
			expected: []string{"@bob@example.social"},
		},
		{
			name:     "federated through only",
			args:     []string{"--only", "federated", "ping @bob@example.social and @carol"},
			expected: []string{"@bob@example.social"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, nil, append([]string{"extract", "-o", "json"}, tt.args...)...)
			if err != nil {
				t.Fatalf("extract failed: %v", err)
			}

			var records []extractedMessage
			if err := json.Unmarshal([]byte(out), &records); err != nil {
				t.Fatalf("invalid JSON output: %v\n%s", err, out)
			}
			var values []string
			for _, ent := range records[0].Entities {
				values = append(values, ent.Value)
			}
			if strings.Join(values, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("values = %v, want %v", values, tt.expected)
			}
		})
	}

	if _, err := executeCommand(t, nil, "extract", "--only", "emails", "a@b.com"); err == nil {
		t.Error("Expected an error for an unknown entity type")
	}
}

func TestExtractCommand_Files(t *testing.T) {
	dir := t.TempDir()
	markdown := filepath.Join(dir, "thread.md")
	if err := os.WriteFile(markdown, []byte("Thanks **@alice** for [the demo](https://example.com/demo)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	plain := filepath.Join(dir, "lines.txt")
	if err := os.WriteFile(plain, []byte("#one\n#two\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, nil, "extract", "-o", "json", "--file", markdown, "--file", plain, "--workers", "2")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	var records []extractedMessage
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Source != markdown || records[0].Format != extractor.InputMarkdown {
		t.Errorf("unexpected first record %+v", records[0])
	}
	if records[0].Summary.TotalEntities != 2 || records[1].Summary.TotalEntities != 2 {
		t.Errorf("unexpected summaries %+v / %+v", records[0].Summary, records[1].Summary)
	}

	out, err = executeCommand(t, nil, "extract", "--file", plain, "--lines")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"lines.txt:1", "lines.txt:2", "#one", "#two", "Summary: 2 entities in 2 messages"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = executeCommand(t, nil, "extract", "--file", filepath.Join(dir, "missing.txt"))
	if err != nil {
		t.Fatalf("a missing file should be reported, not fail the batch: %v", err)
	}
	if !strings.Contains(out, "❌ Error:") {
		t.Errorf("Expected the missing file to be reported:\n%s", out)
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := executeCommand(t, nil, "validate", "@alice", "#golang", "https://example.com", "example.com", "hello world")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	for _, want := range []string{
		"✅ @alice: valid username",
		"✅ #golang: valid hashtag",
		"✅ https://example.com: valid url",
		"✅ example.com: valid url_without_protocol",
		"✅ hello world: valid tweet",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = executeCommand(t, nil, "validate", "@alice-bob")
	if err == nil {
		t.Error("Expected an error for an invalid username")
	}
	if !strings.Contains(out, "❌ @alice-bob: not a valid username") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = executeCommand(t, nil, "validate", "--kind", "tweet", "-o", "json", strings.Repeat("日", 141))
	if err == nil {
		t.Error("Expected an error for a message that is too long")
	}
	if !strings.Contains(out, `"message": "message too long"`) {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = executeCommand(t, nil, "validate", "--all", "@alice/team")
	if err != nil {
		t.Fatalf("--all should not fail when some kinds reject the input: %v", err)
	}
	if strings.Count(out, "@alice/team:") != 3 {
		t.Errorf("Expected three verdicts:\n%s", out)
	}

	if _, err := executeCommand(t, nil, "validate", "--kind", "doi", "10.1/x"); err == nil {
		t.Error("Expected an error for an unknown kind")
	}
}

func TestValidateCommand_Stdin(t *testing.T) {
	input := strings.NewReader("@alice\n\n@bob\n")
	out, err := executeCommand(t, input, "validate", "--stdin", "--kind", "username")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if strings.Count(out, "✅") != 2 {
		t.Errorf("Expected two valid usernames:\n%s", out)
	}
}
