package extractor

const (
	maxCashtagSymbol = 6
	maxCashtagSuffix = 2
)

// hashtagAt parses "#tag" at pos. The tag needs at least one letter.
func (s *scanner) hashtagAt(pos int) (token, bool) {
	if pos > 0 {
		if prev := s.text[pos-1]; prev != 0xFE0E && prev != 0xFE0F && (prev == '&' || isHashtagLetter(prev)) {
			return token{}, false
		}
	}

	body := pos + 1
	if s.hasPrefixFold(body, "http://") || s.hasPrefixFold(body, "https://") {
		return token{}, false
	}
	if r := s.at(body); r == 0xFE0F || r == 0x20E3 {
		return token{}, false
	}

	end := body
	hasLetter := false
	for end < len(s.text) {
		r := s.text[end]
		if isHashtagLetter(r) {
			hasLetter = true
		} else if !isHashtagSpecial(r) {
			break
		}
		end++
	}
	if !hasLetter {
		return token{}, false
	}
	return token{kind: tokHashtag, start: pos, end: end}, true
}

// cashtagAt parses "$SYMBOL" or "$SYM.X" at pos. Cashtags stand at the start
// of the text or after whitespace, and may not run into a letter or digit.
func (s *scanner) cashtagAt(pos int) (token, bool) {
	if pos > 0 && !isSpace(s.text[pos-1]) {
		return token{}, false
	}

	end := s.asciiLettersEnd(pos+1, maxCashtagSymbol)
	if end == pos+1 {
		return token{}, false
	}
	if sep := s.at(end); sep == '.' || sep == '_' {
		if suffixEnd := s.asciiLettersEnd(end+1, maxCashtagSuffix); suffixEnd > end+1 {
			end = suffixEnd
		}
	}
	if isASCIIAlnum(s.at(end)) {
		return token{}, false
	}
	return token{kind: tokCashtag, start: pos, end: end}, true
}

func (s *scanner) asciiLettersEnd(pos, limit int) int {
	end := pos
	for end < len(s.text) && end-pos < limit && isASCIILetter(s.text[end]) {
		end++
	}
	return end
}
