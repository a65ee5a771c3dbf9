package resolver

import (
	"regexp"
	"strings"
)

// Token is one parsed entry of an applicable-compliance annotation.
// Code is empty when the entry carries no numeric-dotted prefix.
type Token struct {
	Raw   string
	Code  string
	Title string
}

var codeTitleRe = regexp.MustCompile(`^\s*([0-9][0-9.]*)\s*(.*)$`)

// SplitTokens splits a semicolon-delimited annotation into trimmed,
// non-empty tokens. Empty input yields no tokens, never an error.
func SplitTokens(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(s, ";") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ParseToken decomposes a token into an optional numeric-dotted code and a
// free-text title. Tokens without a recognizable code degrade to
// title-only; every input produces exactly one Token.
func ParseToken(token string) Token {
	m := codeTitleRe.FindStringSubmatch(token)
	if m == nil {
		return Token{Raw: token, Title: strings.TrimSpace(token)}
	}
	return Token{
		Raw:   token,
		Code:  strings.TrimSpace(m[1]),
		Title: strings.TrimSpace(m[2]),
	}
}

// ParseAnnotation splits and decomposes a whole annotation in one pass,
// preserving token order.
func ParseAnnotation(s string) []Token {
	raw := SplitTokens(s)
	if len(raw) == 0 {
		return nil
	}
	out := make([]Token, 0, len(raw))
	for _, t := range raw {
		out = append(out, ParseToken(t))
	}
	return out
}
