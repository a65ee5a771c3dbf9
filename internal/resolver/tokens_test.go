package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "7.4.3 Accuracy and quality", []string{"7.4.3 Accuracy and quality"}},
		{"two tokens", "7.4.3 Accuracy and quality; 5.1 Governance", []string{"7.4.3 Accuracy and quality", "5.1 Governance"}},
		{"blank tokens dropped", " ; ;5.1 Governance; ", []string{"5.1 Governance"}},
		{"only separators", ";;;", nil},
		{"whitespace only", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTokens(tt.input))
		})
	}
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantCode  string
		wantTitle string
	}{
		{"code and title", "7.4.3 Accuracy and quality", "7.4.3", "Accuracy and quality"},
		{"short code", "5.1 Governance", "5.1", "Governance"},
		{"title only", "Access control review", "", "Access control review"},
		{"code only", "7.4.3", "7.4.3", ""},
		{"leading whitespace", "  9.2 Internal audit", "9.2", "Internal audit"},
		{"digit-led word", "2FA required", "2", "FA required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := ParseToken(tt.token)
			assert.Equal(t, tt.wantCode, tok.Code)
			assert.Equal(t, tt.wantTitle, tok.Title)
			assert.Equal(t, tt.token, tok.Raw)
		})
	}
}

func TestParseAnnotationOrder(t *testing.T) {
	tokens := ParseAnnotation("7.4.3 Accuracy and quality; 5.1 Governance")
	require.Len(t, tokens, 2)
	assert.Equal(t, Token{Raw: "7.4.3 Accuracy and quality", Code: "7.4.3", Title: "Accuracy and quality"}, tokens[0])
	assert.Equal(t, Token{Raw: "5.1 Governance", Code: "5.1", Title: "Governance"}, tokens[1])
}

// Joining parsed tokens and reparsing must reproduce the same token
// boundaries, modulo internal whitespace trimming.
func TestSplitTokensRoundTrip(t *testing.T) {
	inputs := []string{
		"7.4.3 Accuracy and quality; 5.1 Governance",
		"a;b;c",
		"  x ;  y  ",
	}
	for _, in := range inputs {
		first := SplitTokens(in)
		again := SplitTokens(strings.Join(first, ";"))
		assert.Equal(t, first, again, "input %q", in)
	}
}

// Every string yields a token list and every token yields exactly one
// (code, title) pair; nothing errors or panics.
func TestParserTotality(t *testing.T) {
	inputs := []string{
		"", ";", " ", "; ;", "1", ".", "...", "1.2.3.4.5 x; ;;",
		"no code here", "7,4 comma not dot", "§ weird ¶ runes",
	}
	for _, in := range inputs {
		for _, tok := range ParseAnnotation(in) {
			assert.NotEmpty(t, tok.Raw)
			assert.True(t, tok.Code != "" || tok.Title != "")
		}
	}
}
