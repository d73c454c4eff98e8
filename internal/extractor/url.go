package extractor

const maxShortLinkPath = 40

// urlMatch is the syntactic extent of a URL. The host is text[hostStart:hostEnd].
type urlMatch struct {
	end       int
	hostStart int
	hostEnd   int
	shortLink bool
}

// parseURL matches "http://" or "https://" followed by a host and optional
// port, path, query and fragment.
func (s *scanner) parseURL(pos int) (urlMatch, bool) {
	hostStart, ok := s.protocolEnd(pos)
	if !ok {
		return urlMatch{}, false
	}
	if m, ok := s.parseShortLink(hostStart); ok {
		return m, true
	}

	if end, ok := s.userinfoEnd(hostStart); ok {
		hostStart = end
	}
	hostEnd, ok := s.hostEnd(hostStart)
	if !ok {
		return urlMatch{}, false
	}
	return urlMatch{
		end:       s.urlTail(hostEnd),
		hostStart: hostStart,
		hostEnd:   hostEnd,
	}, true
}

// parseBareURL matches a domain without protocol followed by optional port,
// path, query and fragment. The last label may be in a native script.
func (s *scanner) parseBareURL(pos int) (urlMatch, bool) {
	hostEnd, ok := s.bareHostEnd(pos)
	if !ok {
		return urlMatch{}, false
	}
	return urlMatch{
		end:       s.urlTail(hostEnd),
		hostStart: pos,
		hostEnd:   hostEnd,
	}, true
}

func (s *scanner) protocolEnd(pos int) (int, bool) {
	if !s.hasPrefixFold(pos, "http") {
		return 0, false
	}
	i := pos + 4
	if toLowerASCII(s.at(i)) == 's' {
		i++
	}
	if !s.hasPrefix(i, "://") {
		return 0, false
	}
	return i + 3, true
}

// parseShortLink matches the link shortener host "t.co" with its short
// alphanumeric path. Query and fragment are kept.
func (s *scanner) parseShortLink(hostStart int) (urlMatch, bool) {
	if !s.isShortLinkHost(hostStart) {
		return urlMatch{}, false
	}
	hostEnd := hostStart + 4
	end := hostEnd
	if s.at(end) == '/' {
		i := end + 1
		for i < len(s.text) && isASCIIAlnum(s.text[i]) {
			i++
		}
		if i-(end+1) > maxShortLinkPath {
			return urlMatch{}, false
		}
		end = i
	}
	if q, ok := s.queryEnd(end); ok {
		end = q
		if s.at(end) == '#' {
			end = s.fragmentEnd(end)
		}
	}
	return urlMatch{end: end, hostStart: hostStart, hostEnd: hostEnd, shortLink: true}, true
}

// isShortLinkHost reports "t.co" standing alone as a host, not as the start
// of a longer name such as "t.com".
func (s *scanner) isShortLinkHost(pos int) bool {
	if !s.hasPrefix(pos, "t.co") {
		return false
	}
	switch next := s.at(pos + 4); next {
	case '.', '-', '_':
		return !isDomainChar(s.at(pos + 5))
	default:
		return !isDomainChar(next)
	}
}

// userinfoEnd matches "user:password@" and returns the position after the at sign.
func (s *scanner) userinfoEnd(pos int) (int, bool) {
	for i := pos; i < len(s.text); i++ {
		r := s.text[i]
		switch {
		case r == '@':
			return i + 1, true
		case r == '%':
			if !isHexDigit(s.at(i+1)) || !isHexDigit(s.at(i+2)) {
				return 0, false
			}
			i += 2
		case !isUserinfoChar(r):
			return 0, false
		}
	}
	return 0, false
}

// hostEnd matches an IP literal, an IPv4 address or a domain name.
func (s *scanner) hostEnd(pos int) (int, bool) {
	if s.isShortLinkHost(pos) {
		return 0, false
	}
	if end, ok := s.ipLiteralEnd(pos); ok {
		return end, true
	}
	if end, ok := s.ipv4End(pos); ok {
		return end, true
	}
	return s.domainEnd(pos)
}

func (s *scanner) ipLiteralEnd(pos int) (int, bool) {
	if s.at(pos) != '[' {
		return 0, false
	}
	i := pos + 1
	for i < len(s.text) && (isHexDigit(s.text[i]) || s.text[i] == ':' || s.text[i] == '.') {
		i++
	}
	if i == pos+1 || s.at(i) != ']' {
		return 0, false
	}
	return i + 1, true
}

func (s *scanner) ipv4End(pos int) (int, bool) {
	i := pos
	for octet := 0; octet < 4; octet++ {
		if octet > 0 {
			if s.at(i) != '.' {
				return 0, false
			}
			i++
		}
		end, ok := s.decOctetEnd(i)
		if !ok {
			return 0, false
		}
		i = end
	}
	return i, true
}

// decOctetEnd matches a decimal number from 0 to 255, preferring the longest
// form in the order 25x, 2xx, 1xx, two digits, one digit.
func (s *scanner) decOctetEnd(pos int) (int, bool) {
	a, b, c := s.at(pos), s.at(pos+1), s.at(pos+2)
	switch {
	case a == '2' && b == '5' && c >= '0' && c <= '5':
		return pos + 3, true
	case a == '2' && b >= '0' && b <= '4' && isASCIIDigit(c):
		return pos + 3, true
	case a == '1' && isASCIIDigit(b) && isASCIIDigit(c):
		return pos + 3, true
	case a >= '1' && a <= '9' && isASCIIDigit(b):
		return pos + 2, true
	case isASCIIDigit(a):
		return pos + 1, true
	}
	return 0, false
}

// domainEnd matches dot separated labels. A trailing dot is left out.
func (s *scanner) domainEnd(pos int) (int, bool) {
	end, ok := s.domainLabelEnd(pos)
	if !ok {
		return 0, false
	}
	for s.at(end) == '.' {
		next, ok := s.domainLabelEnd(end + 1)
		if !ok {
			break
		}
		end = next
	}
	return end, true
}

func (s *scanner) domainLabelEnd(pos int) (int, bool) {
	if s.hasPrefixFold(pos, "xn--") {
		i := pos + 4
		for i < len(s.text) && (isASCIIAlnum(s.text[i]) || s.text[i] == '-') {
			i++
		}
		if i > pos+4 {
			return i, true
		}
	}
	return s.labelEnd(pos, isDomainChar)
}

// labelEnd matches characters accepted by isChar where a hyphen or an
// underscore only joins two such characters.
func (s *scanner) labelEnd(pos int, isChar func(rune) bool) (int, bool) {
	if !isChar(s.at(pos)) {
		return 0, false
	}
	end := pos + 1
	for end < len(s.text) {
		r := s.text[end]
		if r == '-' || r == '_' {
			if !isChar(s.at(end + 1)) {
				break
			}
			end += 2
			continue
		}
		if !isChar(r) {
			break
		}
		end++
	}
	return end, true
}

// bareHostEnd matches the host of a URL without protocol. It needs at least
// one dot and may end with a native-script label.
func (s *scanner) bareHostEnd(pos int) (int, bool) {
	end := pos
	for {
		next, ok := s.labelEnd(end, isBareDomainChar)
		if !ok {
			if next, ok = s.unicodeTLDEnd(end); ok {
				end = next
			} else if end > pos {
				// "example.com." ends before its trailing dot.
				end--
			} else {
				return 0, false
			}
			break
		}
		end = next
		if s.at(end) != '.' {
			break
		}
		end++
	}

	if r := s.at(end); isASCIIAlnum(r) || isAtSign(r) {
		return 0, false
	}
	for i := pos; i < end; i++ {
		if s.text[i] == '.' {
			return end, true
		}
	}
	return 0, false
}

func (s *scanner) unicodeTLDEnd(pos int) (int, bool) {
	i := pos
	for i < len(s.text) && isUnicodeTLDChar(s.text[i]) {
		i++
	}
	return i, i > pos
}

// urlTail extends a URL over its port, path, query and fragment.
func (s *scanner) urlTail(pos int) int {
	end := pos
	if p, ok := s.portEnd(end); ok {
		end = p
	}
	if p, ok := s.pathEnd(end); ok {
		end = p
	}
	if q, ok := s.queryEnd(end); ok {
		end = q
	}
	if s.at(end) == '#' {
		end = s.fragmentEnd(end)
	}
	return end
}

func (s *scanner) portEnd(pos int) (int, bool) {
	if s.at(pos) != ':' {
		return 0, false
	}
	if r := s.at(pos + 1); r < '1' || r > '9' {
		return 0, false
	}
	i := pos + 2
	for i < len(s.text) && isASCIIDigit(s.text[i]) {
		i++
	}
	return i, true
}

// pathEnd matches a path starting with '/'. Parentheses must balance; on an
// unbalanced run the path ends at the last balanced point. Trailing
// punctuation other than '/' is left out.
func (s *scanner) pathEnd(pos int) (int, bool) {
	if s.at(pos) != '/' {
		return 0, false
	}

	end := pos + 1
	depth := 0
	for i := pos + 1; i < len(s.text); i++ {
		r := s.text[i]
		if r == '(' {
			depth++
		} else if r == ')' {
			if depth == 0 {
				break
			}
			depth--
		} else if !isPathChar(r) {
			break
		}
		end = i + 1
	}

	if depth > 0 {
		balanced := pos + 1
		d := 0
		for i := pos + 1; i < end; i++ {
			r := s.text[i]
			if r == '(' {
				d++
			} else if r == ')' {
				d--
			}
			if d == 0 && (r == ')' || isPathChar(r)) {
				balanced = i + 1
			}
		}
		end = balanced
	}

	for end > pos+1 && isPathPunct(s.text[end-1]) {
		end--
	}
	return end, true
}

// queryEnd matches '?' and the query up to its last non-punctuation
// character. A '?' directly followed by '#' is kept alone.
func (s *scanner) queryEnd(pos int) (int, bool) {
	if s.at(pos) != '?' {
		return 0, false
	}
	if s.at(pos+1) == '#' {
		return pos + 1, true
	}
	last := 0
	for i := pos + 1; i < len(s.text); i++ {
		r := s.text[i]
		if isQueryEndChar(r) {
			last = i + 1
		} else if !isQueryPunct(r) {
			break
		}
	}
	if last == 0 {
		return 0, false
	}
	return last, true
}

func (s *scanner) fragmentEnd(pos int) int {
	i := pos + 1
	for i < len(s.text) && isFragmentChar(s.text[i]) {
		i++
	}
	return i
}
