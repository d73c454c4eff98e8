package extractor

import (
	"unicode"
)

const (
	maxUsernameLength = 20
	maxListSlugLength = 25
)

// mentionAt parses a list or a screen name at pos, which holds an at sign.
// Federated scans try "@user@domain" first.
func (s *scanner) mentionAt(pos int) (token, bool) {
	if !s.validMentionPredecessor(pos) {
		return token{}, false
	}

	if s.federated {
		if end, ok := s.federatedMentionAt(pos); ok && s.validMentionSuffix(end) {
			return token{kind: tokFederatedMention, start: pos, end: end}, true
		}
	}

	nameEnd := s.usernameEnd(pos + 1)
	if nameEnd == pos+1 {
		return token{}, false
	}

	tok := token{kind: tokMention, start: pos, end: nameEnd}
	if slugEnd, ok := s.listSlugEnd(nameEnd); ok {
		tok = token{kind: tokList, start: pos, end: slugEnd, slugStart: nameEnd + 1}
	}

	if !s.validMentionSuffix(tok.end) {
		return token{}, false
	}
	return tok, true
}

// validMentionPredecessor rejects at signs glued to a word, such as the one
// of an e-mail address. "RT@user" and "RT:@user" remain valid.
func (s *scanner) validMentionPredecessor(pos int) bool {
	if pos == 0 {
		return true
	}
	switch prev := s.text[pos-1]; {
	case isASCIIAlnum(prev), prev == '_', isAtSign(prev):
	case prev == '!', prev == '#', prev == '$', prev == '%', prev == '&', prev == '*':
	default:
		return true
	}
	return s.retweetPrefixBefore(pos)
}

// retweetPrefixBefore reports whether pos is preceded by "RT" or "RT:", in any
// case, standing at the start of the text or after whitespace.
func (s *scanner) retweetPrefixBefore(pos int) bool {
	rtEnd := pos
	if s.at(pos-1) == ':' {
		rtEnd = pos - 1
	}
	for _, end := range []int{rtEnd, pos} {
		start := end - 2
		if start < 0 || !s.hasPrefixFold(start, "rt") {
			continue
		}
		if start == 0 || unicode.IsSpace(s.text[start-1]) {
			return true
		}
	}
	return false
}

// validMentionSuffix rejects mentions running into another address, a
// hyphenated word, an accented letter or a scheme separator.
func (s *scanner) validMentionSuffix(end int) bool {
	next := s.at(end)
	switch {
	case next == 0:
		return true
	case isAtSign(next), next == '-', isLatinAccent(next):
		return false
	}
	return !s.hasPrefix(end, "://")
}

// usernameEnd returns the end of the screen name starting at pos, which is
// pos itself when there is none. Only the first twenty characters are taken.
func (s *scanner) usernameEnd(pos int) int {
	end := pos
	for end < len(s.text) && end-pos < maxUsernameLength && isUsernameChar(s.text[end]) {
		end++
	}
	return end
}

// listSlugEnd parses "/slug" at pos.
func (s *scanner) listSlugEnd(pos int) (int, bool) {
	if s.at(pos) != '/' || !isASCIILetter(s.at(pos+1)) {
		return 0, false
	}
	start := pos + 1
	end := start + 1
	for end < len(s.text) && end-start < maxListSlugLength {
		r := s.text[end]
		if !isUsernameChar(r) && r != '-' {
			break
		}
		end++
	}
	return end, true
}

// federatedMentionAt parses "@user@domain" at pos.
func (s *scanner) federatedMentionAt(pos int) (int, bool) {
	userEnd := s.federatedSegmentEnd(pos + 1)
	if userEnd == pos+1 || s.at(userEnd) != '@' {
		return 0, false
	}
	domainEnd := s.federatedSegmentEnd(userEnd + 1)
	if domainEnd == userEnd+1 {
		return 0, false
	}
	return domainEnd, true
}

// federatedSegmentEnd scans name characters joined by runs of dots and
// hyphens. A trailing run of separators is not part of the segment.
func (s *scanner) federatedSegmentEnd(pos int) int {
	if !isUsernameChar(s.at(pos)) {
		return pos
	}
	end := pos + 1
	for i := end; i < len(s.text); {
		switch r := s.text[i]; {
		case isUsernameChar(r):
			i++
			end = i
		case r == '.' || r == '-':
			j := i + 1
			for j < len(s.text) && (s.text[j] == '.' || s.text[j] == '-') {
				j++
			}
			if !isUsernameChar(s.at(j)) {
				return end
			}
			i = j + 1
			end = i
		default:
			return end
		}
	}
	return end
}
