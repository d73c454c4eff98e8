package extractor

import (
	"unicode"
)

// Character classes shared by the entity parsers. All of them work on single
// code points; context checks live with the parser that needs them.

func isASCIIAlnum(r rune) bool {
	return r < 0x80 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
}

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isASCIIDigit(r) || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

// isSpace reports the whitespace that separates entities.
func isSpace(r rune) bool {
	switch {
	case r >= 0x09 && r <= 0x0D, r >= 0x2000 && r <= 0x200A:
		return true
	}
	switch r {
	case 0x20, 0x85, 0xA0, 0x1680, 0x180E, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000:
		return true
	}
	return false
}

// isInvalidChar reports code points that make a message invalid.
func isInvalidChar(r rune) bool {
	return r == 0xFFFE || r == 0xFEFF || r == 0xFFFF
}

// isDirectionalMark reports bidi controls, which never belong to a URL.
func isDirectionalMark(r rune) bool {
	switch {
	case r == 0x200E, r == 0x200F:
		return true
	case r >= 0x202A && r <= 0x202E:
		return true
	case r >= 0x2066 && r <= 0x2069:
		return true
	}
	return false
}

// isLatinAccent reports accented Latin letters and combining marks that may
// appear in screen-name boundaries and bare domains.
func isLatinAccent(r rune) bool {
	switch {
	case r >= 0x00C0 && r <= 0x00D6,
		r >= 0x00D8 && r <= 0x00F6,
		r >= 0x00F8 && r <= 0x00FF,
		r >= 0x0100 && r <= 0x024F,
		r == 0x0253, r == 0x0254,
		r == 0x0256, r == 0x0257,
		r == 0x0259, r == 0x025B, r == 0x0263, r == 0x0268,
		r == 0x026F, r == 0x0272, r == 0x0289, r == 0x028B, r == 0x02BB,
		r >= 0x0300 && r <= 0x036F,
		r >= 0x1E00 && r <= 0x1EFF:
		return true
	}
	return false
}

func isCyrillic(r rune) bool {
	return r >= 0x0400 && r <= 0x04FF
}

// isPunct reports ASCII punctuation. Punctuation of other scripts is allowed
// inside host names.
func isPunct(r rune) bool {
	return r < 0x80 && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}

// isDomainChar reports characters allowed in a host name after a scheme.
func isDomainChar(r rune) bool {
	return !isPunct(r) && !isSpace(r) && !unicode.IsSpace(r) && !isInvalidChar(r) &&
		!isDirectionalMark(r) && !unicode.IsControl(r)
}

// isUnicodeTLDChar reports characters of a native-script top-level label.
func isUnicodeTLDChar(r rune) bool {
	return r >= 0x80 && isDomainChar(r)
}

// isBareDomainChar reports characters of a label in a URL without protocol.
func isBareDomainChar(r rune) bool {
	return isASCIIAlnum(r) || isLatinAccent(r)
}

// isURLDelimiter reports characters that end the context of a previous URL:
// spaces and CJK text, which is written without spaces.
func isURLDelimiter(r rune) bool {
	if isSpace(r) {
		return true
	}
	switch {
	case r >= 0x3000 && r <= 0x303F,
		r >= 0x3040 && r <= 0x309F,
		r >= 0x30A0 && r <= 0x30FF,
		r >= 0x4E00 && r <= 0x9FFF,
		r >= 0xAC00 && r <= 0xD7AF,
		r >= 0xFF00 && r <= 0xFFEF:
		return true
	}
	return false
}

func isPathEndChar(r rune) bool {
	switch r {
	case '=', '_', '-', '+':
		return true
	}
	return isASCIIAlnum(r) || isCyrillic(r) || isLatinAccent(r)
}

func isPathPunct(r rune) bool {
	switch r {
	case '!', '*', '\'', ';', ':', ',', '.', '$', '%', '[', ']', '~', '|', '&', '@', 0x2013:
		return true
	}
	return false
}

func isPathChar(r rune) bool {
	return r == '/' || isPathEndChar(r) || isPathPunct(r)
}

func isQueryEndChar(r rune) bool {
	switch r {
	case '-', '_', '&', '=', '/', '+':
		return true
	}
	return isASCIIAlnum(r)
}

func isQueryPunct(r rune) bool {
	switch r {
	case '!', '?', '*', '\'', '(', ')', ';', ':', '$', '%', '[', ']', '.', '~', '|', '@', ',':
		return true
	}
	return false
}

func isFragmentChar(r rune) bool {
	return isQueryEndChar(r) || r == '#' || isQueryPunct(r)
}

func isUserinfoChar(r rune) bool {
	switch r {
	case '-', '.', '_', '~', ':', '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}
	return isASCIIAlnum(r) || isCyrillic(r)
}

func isUsernameChar(r rune) bool {
	return isASCIIAlnum(r) || r == '_'
}

func isAtSign(r rune) bool {
	return r == '@' || r == '＠'
}

func isHashSign(r rune) bool {
	return r == '#' || r == '＃'
}

// isHashtagLetter reports letters and marks.
func isHashtagLetter(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r)
}

// isHashtagSpecial reports the non-letter characters allowed inside a hashtag.
func isHashtagSpecial(r rune) bool {
	switch r {
	case '_', 0x200C, 0x200D, 0xA67E, 0x05BE, 0x05F3, 0x05F4, 0xFF5E, 0x301C,
		0x309B, 0x309C, 0x30A0, 0x30FB, 0x3003, 0x0F0B, 0x0F0C, 0x00B7:
		return true
	}
	return unicode.Is(unicode.Nd, r)
}

// isFastSkip reports ASCII characters that can never start an entity.
func isFastSkip(r rune) bool {
	switch r {
	case ' ', '.', ',', '!', '?', '\'', '"', '-', '_', '\n', '\r', '\t',
		'(', ')', '[', ']', '{', '}', ':', ';', '<', '>', '/', '\\', '|',
		'`', '~', '=', '+', '&', '^', '%':
		return true
	}
	return false
}

// isLatin reports letters of the Latin script. Digits, hyphens, underscores
// and combining marks are neutral.
func isLatin(r rune) bool {
	return unicode.Is(unicode.Latin, r)
}

func isScriptNeutral(r rune) bool {
	return isASCIIDigit(r) || r == '-' || r == '_' || unicode.Is(unicode.Mn, r)
}
