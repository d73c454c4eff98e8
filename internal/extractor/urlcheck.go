package extractor

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// MaxURLLength is the longest URL, after converting its host to ASCII, that
// is still accepted.
const MaxURLLength = 4096

// hostProfile converts hosts the way browsers do for lookups: no STD3 rules,
// no hyphen position checks, DNS lengths enforced.
var hostProfile = idna.New(
	idna.MapForLookup(),
	idna.Transitional(false),
	idna.StrictDomainName(false),
	idna.CheckHyphens(false),
	idna.VerifyDNSLength(true),
)

// validateURL checks the host of a syntactic URL match. It returns the end
// of the URL to emit: m.end, or the end of a shorter host when only a prefix
// of the host ends in a known top-level domain, in which case everything
// after the host is dropped.
func (s *scanner) validateURL(start int, m urlMatch, bare bool) (int, bool) {
	host := s.text[m.hostStart:m.hostEnd]
	if m.shortLink {
		return m.end, s.validHost(start, m.end, host, true)
	}

	if bare {
		if cut := validDomainEnd(host); cut < len(host) {
			trimmed := host[:cut]
			dot := lastIndexRune(trimmed, '.')
			if dot < 0 || !s.tlds.Matches(string(trimmed[dot+1:])) {
				return 0, false
			}
			end := m.hostStart + cut
			return end, s.validHost(start, end, trimmed, false)
		}
	}

	boundary, ok := s.tldBoundary(host, bare)
	if !ok {
		return 0, false
	}
	end := m.end
	if boundary < len(host) {
		host = host[:boundary]
		end = m.hostStart + boundary
	}
	return end, s.validHost(start, end, host, !bare)
}

// validHost converts the host to its ASCII form and checks the length of the
// resulting URL. URLs without protocol are measured with "https://" added.
func (s *scanner) validHost(start, end int, host []rune, hasScheme bool) bool {
	h := string(host)
	ascii, err := hostProfile.ToASCII(h)
	if err != nil {
		return false
	}

	length := 0
	if !hasScheme {
		length = len("https://")
	}
	urlBytes := 0
	for _, r := range s.text[start:end] {
		urlBytes += utf8.RuneLen(r)
	}
	return length+urlBytes-len(h)+len(ascii) < MaxURLLength
}

// tldBoundary returns the length of the longest prefix of host that ends in
// a known top-level domain.
//
// When a label switches from Latin to another script ("example.comだよね"),
// the labels are searched left to right for one whose Latin prefix is a TLD.
// Otherwise labels are tried right to left. For URLs without protocol a
// native-script label may also start with a TLD ("example.みんなです").
func (s *scanner) tldBoundary(host []rune, bare bool) (int, bool) {
	var dots []int
	for i, r := range host {
		if r == '.' {
			dots = append(dots, i)
		}
	}
	if len(dots) == 0 {
		return 0, false
	}

	label := func(k int) []rune {
		end := len(host)
		if k+1 < len(dots) {
			end = dots[k+1]
		}
		return host[dots[k]+1 : end]
	}

	mixed := false
	for _, l := range strings.Split(string(host), ".") {
		if hasScriptMixing([]rune(l)) {
			mixed = true
			break
		}
	}
	if mixed {
		for k := range dots {
			l := label(k)
			if !hasScriptMixing(l) {
				continue
			}
			prefix := l[:scriptBoundary(l)]
			if len(prefix) > 0 && s.tlds.Matches(string(prefix)) {
				return dots[k] + 1 + len(prefix), true
			}
		}
	}

	for k := len(dots) - 1; k >= 0; k-- {
		l := label(k)
		if s.tlds.Matches(string(l)) {
			return dots[k] + 1 + len(l), true
		}
		if bare {
			if p := s.tlds.HasPrefixTLD(string(l)); p != "" {
				return dots[k] + 1 + utf8.RuneCountInString(p), true
			}
		}
	}
	return 0, false
}

// validDomainEnd returns where the host of a URL without protocol stops being
// a single-script name: inside the rightmost label that switches from Latin
// to another script, or len(host).
func validDomainEnd(host []rune) int {
	end := len(host)
	for end > 0 {
		start := lastIndexRune(host[:end], '.') + 1
		l := host[start:end]
		if hasScriptMixing(l) {
			return start + scriptBoundary(l)
		}
		end = start - 1
	}
	return len(host)
}

// hasScriptMixing reports a Latin letter followed by a letter of another
// script. Punycode labels never mix.
func hasScriptMixing(label []rune) bool {
	if len(label) >= 4 && strings.EqualFold(string(label[:4]), "xn--") {
		return false
	}
	seenLatin := false
	for _, r := range label {
		switch {
		case isLatin(r):
			seenLatin = true
		case isScriptNeutral(r):
		case seenLatin:
			return true
		}
	}
	return false
}

// scriptBoundary returns the length of the label before it leaves the Latin
// script.
func scriptBoundary(label []rune) int {
	end := 0
	seenLatin := false
	for i, r := range label {
		switch {
		case isLatin(r):
			seenLatin = true
			end = i + 1
		case isScriptNeutral(r):
			end = i + 1
		case seenLatin:
			return end
		default:
			end = i + 1
		}
	}
	return end
}

func lastIndexRune(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}
