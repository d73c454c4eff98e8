// Package tld recognizes top-level domains, in native script and in their
// punycode form, for URL boundary detection.
package tld

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"gopkg.in/yaml.v3"
)

//go:embed tlds.yml
var tldData []byte

// List is the on-disk layout of the TLD list.
type List struct {
	Country []string `yaml:"country"`
	Generic []string `yaml:"generic"`
}

// Labels returns all labels of the list, country codes first.
func (l List) Labels() []string {
	labels := make([]string, 0, len(l.Country)+len(l.Generic))
	labels = append(labels, l.Country...)
	labels = append(labels, l.Generic...)
	return labels
}

// Matcher answers whether a domain label is a known top-level domain.
// A Matcher is immutable once built and safe for concurrent use.
type Matcher struct {
	root *node
	size int
}

var (
	defaultOnce    sync.Once
	defaultMatcher *Matcher
)

// Default returns the process-wide matcher built from the embedded list.
func Default() *Matcher {
	defaultOnce.Do(func() {
		list, err := ParseList(tldData)
		if err != nil {
			panic(fmt.Sprintf("tld: embedded list is invalid: %v", err))
		}
		defaultMatcher = New(list.Labels())
	})
	return defaultMatcher
}

// ParseList decodes a YAML TLD list.
func ParseList(data []byte) (List, error) {
	var list List
	if err := yaml.Unmarshal(data, &list); err != nil {
		return List{}, fmt.Errorf("failed to parse TLD list: %w", err)
	}
	if len(list.Country) == 0 && len(list.Generic) == 0 {
		return List{}, fmt.Errorf("TLD list has no entries")
	}
	return list, nil
}

// New builds a matcher from labels. Each label with a distinct ASCII-compatible
// encoding is registered under both forms.
func New(labels []string) *Matcher {
	keys := make(map[string]struct{}, len(labels)*2)
	for _, label := range labels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label == "" {
			continue
		}
		keys[label] = struct{}{}
		if ascii, err := idna.ToASCII(label); err == nil && ascii != label {
			keys[ascii] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool {
		ai, aj := isASCII(sorted[i]), isASCII(sorted[j])
		if ai != aj {
			return ai
		}
		return sorted[i] < sorted[j]
	})

	m := &Matcher{root: newNode(nil)}
	for _, k := range sorted {
		if m.root.insert([]rune(k)) {
			m.size++
		}
	}
	return m
}

// Matches reports whether candidate is exactly a registered TLD, ignoring case.
func (m *Matcher) Matches(candidate string) bool {
	if candidate == "" {
		return false
	}
	return m.root.lookup([]rune(strings.ToLower(candidate)))
}

// HasPrefixTLD returns the longest registered TLD that prefixes label, or ""
// when there is none. Only non-ASCII labels are considered: ASCII labels must
// match exactly.
func (m *Matcher) HasPrefixTLD(label string) string {
	if label == "" || isASCII(label) {
		return ""
	}
	runes := []rune(strings.ToLower(label))
	n := m.root.longestPrefix(runes)
	if n == 0 {
		return ""
	}
	original := []rune(label)
	if n > len(original) {
		return string(runes[:n])
	}
	// Hand back the caller's spelling, not the lowered one.
	return string(original[:n])
}

// Len returns the number of registered keys.
func (m *Matcher) Len() int {
	return m.size
}

// Keys returns every registered key. At every branch ASCII continuations are
// listed before non-ASCII ones.
func (m *Matcher) Keys() []string {
	keys := make([]string, 0, m.size)
	m.root.walk(nil, func(k string) {
		keys = append(keys, k)
	})
	return keys
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
