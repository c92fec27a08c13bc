package iniconf

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reEmpty        = regexp.MustCompile(`^\s*($|#|;)`)
	reSection      = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*(?:[#;].*)?$`)
	reKey          = regexp.MustCompile(`^([^:=\s\[][^:=]*)=\s*(.*)$`)
	reContinuation = regexp.MustCompile(`^\s+(\S.*?)\s*$`)
	reInclude      = regexp.MustCompile(`^%include\s+(.+?)\s*$`)
)

type tokenKind int

const (
	tokInvalid tokenKind = iota
	tokBlank
	tokSection
	tokKey
	tokContinuation
	tokInclude
)

func (k tokenKind) String() string {
	switch k {
	case tokBlank:
		return "blank"
	case tokSection:
		return "section"
	case tokKey:
		return "key"
	case tokContinuation:
		return "continuation"
	case tokInclude:
		return "include"
	default:
		return "invalid"
	}
}

// lineToken is a classified line. name holds the section name, key or
// include path, value the raw value or continuation fragment.
type lineToken struct {
	kind  tokenKind
	name  string
	value string
}

// classify matches line against the grammar. The productions are tried in
// a fixed order and the first match wins, e.g. an indented "[x]" is a
// section header and not a continuation.
func classify(line string) lineToken {
	if reEmpty.MatchString(line) {
		return lineToken{kind: tokBlank}
	}
	if m := reSection.FindStringSubmatch(line); m != nil {
		return lineToken{kind: tokSection, name: m[1]}
	}
	if m := reKey.FindStringSubmatch(line); m != nil {
		return lineToken{kind: tokKey, name: strings.TrimSpace(m[1]), value: m[2]}
	}
	if m := reContinuation.FindStringSubmatch(line); m != nil {
		return lineToken{kind: tokContinuation, value: m[1]}
	}
	if m := reInclude.FindStringSubmatch(line); m != nil {
		return lineToken{kind: tokInclude, name: m[1]}
	}

	return lineToken{kind: tokInvalid}
}

// ExtractValue strips an unquoted inline comment from the raw right-hand
// side of an assignment and trims trailing whitespace.
//
// Double quotes group text in which '#' and ';' are literal. The quote
// characters are removed; inside quotes \" and \\ are escapes. Outside
// quotes \#, \; and \" escape the next character, any other backslash is
// kept as is. Whitespace inside quotes is preserved.
func ExtractValue(raw string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(raw))

	// keep is the length of the value without unquoted trailing whitespace.
	keep := 0
	quoted := false
	rs := []rune(raw)

scan:
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case quoted && r == '\\' && i+1 < len(rs) && (rs[i+1] == '"' || rs[i+1] == '\\'):
			i++
			sb.WriteRune(rs[i])
			keep = sb.Len()
		case !quoted && r == '\\' && i+1 < len(rs) && strings.ContainsRune(`#;"`, rs[i+1]):
			i++
			sb.WriteRune(rs[i])
			keep = sb.Len()
		case r == '"':
			quoted = !quoted
			keep = sb.Len()
		case quoted:
			sb.WriteRune(r)
			keep = sb.Len()
		case r == '#' || r == ';':
			break scan
		default:
			if sb.Len() == 0 && unicode.IsSpace(r) {
				continue
			}
			sb.WriteRune(r)
			if !unicode.IsSpace(r) {
				keep = sb.Len()
			}
		}
	}

	if quoted {
		return "", ErrUnterminatedQuote
	}

	return sb.String()[:keep], nil
}

// needsQuoting reports whether ExtractValue would not return v unchanged.
func needsQuoting(v string) bool {
	if v == "" {
		return false
	}
	if strings.ContainsAny(v, `#;"`) {
		return true
	}
	if strings.TrimSpace(v) != v {
		return true
	}

	return false
}

// QuoteValue renders v so that ExtractValue returns it unchanged. Values
// that need no quoting are returned as is.
func QuoteValue(v string) string {
	if !needsQuoting(v) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)

	return `"` + v + `"`
}
