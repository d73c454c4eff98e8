package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btraven00/twtext/internal/extractor"
)

func TestReadMessages(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.md")
	if err := os.WriteFile(first, []byte("one\r\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("# Title\n\n**three**\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name     string
		args     []string
		stdin    string
		opts     inputOptions
		expected []string
		labels   []string
	}{
		{
			name:     "arguments are joined",
			args:     []string{"hello", "@alice"},
			expected: []string{"hello @alice"},
			labels:   []string{"args"},
		},
		{
			name:     "stdin as one message",
			stdin:    "line one\nline two\n",
			opts:     inputOptions{stdin: true},
			expected: []string{"line one\nline two"},
			labels:   []string{"stdin"},
		},
		{
			name:     "stdin lines skip blanks",
			stdin:    "a\n\n  \nb\n",
			opts:     inputOptions{stdin: true, lines: true},
			expected: []string{"a", "b"},
			labels:   []string{"stdin:1", "stdin:4"},
		},
		{
			name:     "files keep their order",
			opts:     inputOptions{files: []string{first, second}, lines: true, workers: 2},
			expected: []string{"one", "two", "Title", "three"},
			labels:   []string{first + ":1", first + ":2", second + ":1", second + ":2"},
		},
		{
			name:     "arguments come before files",
			args:     []string{"zero"},
			opts:     inputOptions{files: []string{second}, format: extractor.InputText},
			expected: []string{"zero", "# Title\n\n**three**\n"},
			labels:   []string{"args", second},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			messages, err := readMessages(context.Background(), tc.args, strings.NewReader(tc.stdin), tc.opts)
			if err != nil {
				t.Fatalf("readMessages() error = %v", err)
			}
			if len(messages) != len(tc.expected) {
				t.Fatalf("Expected %d messages, got %+v", len(tc.expected), messages)
			}
			for i, msg := range messages {
				if msg.Text != tc.expected[i] {
					t.Errorf("message %d = %q, want %q", i, msg.Text, tc.expected[i])
				}
				if msg.label() != tc.labels[i] {
					t.Errorf("label %d = %q, want %q", i, msg.label(), tc.labels[i])
				}
			}
		})
	}
}

func TestReadMessages_Errors(t *testing.T) {
	if _, err := readMessages(context.Background(), nil, strings.NewReader(""), inputOptions{}); err != errNoInput {
		t.Errorf("Expected errNoInput, got %v", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.txt")
	_, err := readMessages(context.Background(), nil, nil, inputOptions{files: []string{missing}})
	if err == nil || !strings.Contains(err.Error(), "missing.txt") {
		t.Errorf("Expected an error naming the missing file, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loadFiles(ctx, []string{missing}, extractor.InputText, 1); err == nil {
		t.Error("Expected an error for a canceled context")
	}
}

func TestParseTypeFilter(t *testing.T) {
	filter, err := parseTypeFilter([]string{"mentions", "URLs", "federated"})
	if err != nil {
		t.Fatal(err)
	}
	for _, typ := range []extractor.EntityType{extractor.EntityTypeMention, extractor.EntityTypeURL, extractor.EntityTypeFederatedMention} {
		if !filter[typ] {
			t.Errorf("filter is missing %s", typ)
		}
	}
	if filter[extractor.EntityTypeHashtag] {
		t.Error("filter should not contain hashtags")
	}

	if filter, err := parseTypeFilter(nil); err != nil || filter != nil {
		t.Errorf("parseTypeFilter(nil) = %v, %v", filter, err)
	}

	entities := []extractor.Entity{
		{Type: extractor.EntityTypeHashtag, Value: "#a"},
		{Type: extractor.EntityTypeURL, Value: "example.com"},
	}
	kept := filterEntities(entities, filter)
	if len(kept) != 1 || kept[0].Value != "example.com" {
		t.Errorf("filterEntities() = %+v", kept)
	}
	if got := filterEntities(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("filterEntities(nil, nil) = %#v, want an empty slice", got)
	}
}
