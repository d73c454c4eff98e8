package extractor

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// maxEmojiWindow bounds the text handed to the grapheme segmenter. The
// longest emoji sequences (tag flags, ZWJ families) are well below it.
const maxEmojiWindow = 32

func isEmojiStart(r rune) bool {
	switch {
	case r == 0x00A9, r == 0x00AE:
		return true
	case r >= 0x203C && r <= 0x3299:
		return true
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	}
	return false
}

func isKeycapBase(r rune) bool {
	return r == '#' || r == '*' || isASCIIDigit(r)
}

// emojiLength returns the number of code points of the emoji sequence at pos,
// or 0. A sequence is the grapheme cluster starting with a pictograph, so
// modifiers, variation selectors, ZWJ joins, flags and tag sequences stay
// together. Keycaps are a base character followed by U+20E3.
func (s *scanner) emojiLength(pos int) int {
	r := s.text[pos]
	if isKeycapBase(r) {
		i := pos + 1
		if s.at(i) == 0xFE0F {
			i++
		}
		if s.at(i) == 0x20E3 {
			return i + 1 - pos
		}
		return 0
	}
	if !isEmojiStart(r) {
		return 0
	}

	end := pos + maxEmojiWindow
	if end > len(s.text) {
		end = len(s.text)
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(string(s.text[pos:end]), -1)
	if n := utf8.RuneCountInString(cluster); n > 0 {
		return n
	}
	return 1
}
