package extractor

import (
	"github.com/btraven00/twtext/internal/tld"
)

type tokenKind int

const (
	tokMention tokenKind = iota
	tokList
	tokFederatedMention
	tokHashtag
	tokCashtag
	tokURL
	tokBareURL
	tokEmoji
	tokInvalidChar
	// tokConsumed marks text that was skipped without producing a token.
	tokConsumed
)

// token is a span found by the scanner. Offsets are code point indexes.
type token struct {
	kind      tokenKind
	start     int
	end       int
	slugStart int
}

// isEntity reports whether the token is reported to callers, as opposed to
// emoji and invalid characters which only matter for weighting.
func (t token) isEntity() bool {
	return t.kind < tokEmoji
}

func (t token) entityType() EntityType {
	switch t.kind {
	case tokMention:
		return EntityTypeMention
	case tokList:
		return EntityTypeList
	case tokFederatedMention:
		return EntityTypeFederatedMention
	case tokHashtag:
		return EntityTypeHashtag
	case tokCashtag:
		return EntityTypeCashtag
	case tokURL, tokBareURL:
		return EntityTypeURL
	}
	return ""
}

// scanner walks a message once and tokenizes every entity kind, federated
// mentions only when asked to. Callers filter the tokens they need, so a URL always wins over the hashtags and
// mentions inside its query string.
type scanner struct {
	text []rune
	tlds *tld.Matcher
	// federated enables "@user@domain" mentions.
	federated bool

	// dotAhead[i] is true when a '.' occurs at or after i before the next space.
	dotAhead []bool
	// inScheme[i] is true when "://" occurs between the last URL delimiter
	// before i and i.
	inScheme []bool
}

func newScanner(text []rune, tlds *tld.Matcher) *scanner {
	s := &scanner{text: text, tlds: tlds}

	n := len(text)
	s.dotAhead = make([]bool, n+1)
	for i := n - 1; i >= 0; i-- {
		r := text[i]
		s.dotAhead[i] = r == '.' || !isSpace(r) && s.dotAhead[i+1]
	}

	s.inScheme = make([]bool, n+1)
	lastDelim, lastScheme := 0, -1
	for i := 0; i <= n; i++ {
		if i >= 3 && text[i-3] == ':' && text[i-2] == '/' && text[i-1] == '/' {
			lastScheme = i - 3
		}
		s.inScheme[i] = lastScheme >= lastDelim
		if i < n && isURLDelimiter(text[i]) {
			lastDelim = i + 1
		}
	}
	return s
}

func (s *scanner) at(i int) rune {
	if i < 0 || i >= len(s.text) {
		return 0
	}
	return s.text[i]
}

func (s *scanner) hasPrefixFold(i int, prefix string) bool {
	for _, p := range prefix {
		r := s.at(i)
		if r == 0 || toLowerASCII(r) != toLowerASCII(p) {
			return false
		}
		i++
	}
	return true
}

func (s *scanner) hasPrefix(i int, prefix string) bool {
	for _, p := range prefix {
		if s.at(i) != p || i >= len(s.text) {
			return false
		}
		i++
	}
	return true
}

func toLowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// scan tokenizes the whole text.
func (s *scanner) scan() []token {
	var tokens []token
	n := len(s.text)

	for pos := 0; pos < n; {
		r := s.text[pos]
		if r < 0x80 && isFastSkip(r) {
			pos++
			continue
		}

		if tok, next, ok := s.entityAt(pos); ok {
			if tok.kind != tokConsumed {
				tokens = append(tokens, tok)
			}
			pos = next
			continue
		}

		switch {
		case isInvalidChar(r):
			tokens = append(tokens, token{kind: tokInvalidChar, start: pos, end: pos + 1})
			pos++
		case r == '$':
			pos += 1 + s.skipURL(pos+1)
		case isAtSign(r):
			pos += 1 + s.skipBareURL(pos+1)
		default:
			if l := s.emojiLength(pos); l > 0 {
				tokens = append(tokens, token{kind: tokEmoji, start: pos, end: pos + l})
				pos += l
			} else {
				pos++
			}
		}
	}
	return tokens
}

// entityAt tries every entity that can start at pos and returns the token
// with the position where scanning resumes. A URL that fails host validation
// is still consumed and reported as tokConsumed.
func (s *scanner) entityAt(pos int) (token, int, bool) {
	r := s.text[pos]
	switch {
	case isAtSign(r):
		if tok, ok := s.mentionAt(pos); ok {
			return tok, tok.end, true
		}
	case isHashSign(r):
		if tok, ok := s.hashtagAt(pos); ok {
			return tok, tok.end, true
		}
	case r == '$':
		if tok, ok := s.cashtagAt(pos); ok {
			return tok, tok.end, true
		}
	}

	if r == 'h' || r == 'H' {
		if tok, next, ok := s.urlAt(pos); ok {
			return tok, next, true
		}
	}
	if isBareDomainChar(r) {
		if tok, next, ok := s.bareURLAt(pos); ok {
			return tok, next, true
		}
	}
	return token{}, 0, false
}

// skipURL returns the length of a URL-shaped run at pos, used to step over
// "$example.com" without extracting part of it.
func (s *scanner) skipURL(pos int) int {
	if m, ok := s.parseURL(pos); ok {
		return m.end - pos
	}
	return s.skipBareURL(pos)
}

// skipBareURL returns the length of a bare domain at pos, used to step over
// the domain of an e-mail address.
func (s *scanner) skipBareURL(pos int) int {
	if m, ok := s.parseBareURL(pos); ok {
		return m.end - pos
	}
	return 0
}

// urlAt parses a URL with protocol and validates its host.
func (s *scanner) urlAt(pos int) (token, int, bool) {
	switch s.at(pos - 1) {
	case '@', '#', '$', '＠', '＃':
		return token{}, 0, false
	}
	m, ok := s.parseURL(pos)
	if !ok {
		return token{}, 0, false
	}
	return s.urlToken(pos, m, tokURL), m.end, true
}

// bareURLAt parses a URL without protocol and validates its top-level domain.
func (s *scanner) bareURLAt(pos int) (token, int, bool) {
	prev := s.at(pos - 1)
	switch prev {
	case '@', '#', '$', '＠', '＃', '-', '_', '.', '/':
		return token{}, 0, false
	}
	if isASCIIAlnum(prev) || !s.dotAhead[pos] || s.inScheme[pos] {
		return token{}, 0, false
	}

	m, ok := s.parseBareURL(pos)
	if !ok || isAtSign(s.at(m.end)) {
		return token{}, 0, false
	}
	return s.urlToken(pos, m, tokBareURL), m.end, true
}

// urlToken validates a syntactic URL match. The emitted URL may end before
// the consumed span when only a prefix of the host is a valid domain.
func (s *scanner) urlToken(pos int, m urlMatch, kind tokenKind) token {
	end, ok := s.validateURL(pos, m, kind == tokBareURL)
	if !ok {
		return token{kind: tokConsumed}
	}
	return token{kind: kind, start: pos, end: end}
}
