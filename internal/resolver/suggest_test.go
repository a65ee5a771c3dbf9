package resolver

import (
	"fmt"
	"strings"
	"testing"

	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threatCand(id uint, title string, codes ...string) ThreatCandidate {
	return ThreatCandidate{
		Requirement: models.Requirement{
			ID:            id,
			FrameworkCode: "SAGE-Threat",
			Title:         title,
		},
		Codes: codes,
	}
}

func TestSuggestThresholdExcludesSingleGenericToken(t *testing.T) {
	req := SuggestInput{Title: "Encryption policy"}
	threats := []ThreatCandidate{
		threatCand(1, "Weak encryption detected"), // shares only "encryption": 1.0
	}

	got := SuggestThreats(req, threats, DefaultSuggestOptions())
	assert.Empty(t, got)
}

func TestSuggestTwoGenericTokensQualify(t *testing.T) {
	req := SuggestInput{Title: "Access control review"}
	threats := []ThreatCandidate{
		threatCand(1, "Broken access control"), // shares "access", "control": 2.0
	}

	got := SuggestThreats(req, threats, DefaultSuggestOptions())
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Score)
	require.Len(t, got[0].Reasons, 1)
	assert.Contains(t, got[0].Reasons[0], "content token intersection")
}

func TestSuggestServiceKeywordQualifies(t *testing.T) {
	// keyword tier alone is worth 2.0; the keyword also lives in the word
	// bag, so the text tier adds 1.0 on top
	req := SuggestInput{
		Title:    "Object storage hardening",
		Keywords: []string{"S3"},
	}
	threats := []ThreatCandidate{
		threatCand(1, "Public S3 bucket"),
	}

	got := SuggestThreats(req, threats, DefaultSuggestOptions())
	require.Len(t, got, 1)
	assert.GreaterOrEqual(t, got[0].Score, 2.0)

	joined := strings.Join(got[0].Reasons, "\n")
	assert.Contains(t, joined, "service keyword match")
}

func TestSuggestSharedCodeStrictlyIncreasesScore(t *testing.T) {
	threats := []ThreatCandidate{
		threatCand(1, "Broken access control", "M-014"),
	}
	opts := SuggestOptions{MinScore: 0.5, MaxResults: 8}

	without := SuggestThreats(SuggestInput{Title: "Access control review"}, threats, opts)
	with := SuggestThreats(SuggestInput{Title: "Access control review", Codes: []string{"M-014"}}, threats, opts)

	require.Len(t, without, 1)
	require.Len(t, with, 1)
	assert.Greater(t, with[0].Score, without[0].Score)

	joined := strings.Join(with[0].Reasons, "\n")
	assert.Contains(t, joined, "mapping_codes intersection")
	assert.Contains(t, joined, "m-014")
}

func TestSuggestRankingAndCap(t *testing.T) {
	req := SuggestInput{Title: "data loss prevention policy audit"}

	var threats []ThreatCandidate
	// id 1 shares 2 tokens, id 2 shares 4, id 3 shares 2 (tie with id 1)
	threats = append(threats, threatCand(1, "data loss incident"))
	threats = append(threats, threatCand(2, "data loss prevention policy bypass"))
	threats = append(threats, threatCand(3, "audit data tampering"))

	got := SuggestThreats(req, threats, DefaultSuggestOptions())
	require.Len(t, got, 3)
	assert.Equal(t, uint(2), got[0].Threat.ID)
	// equal scores keep catalog order
	assert.Equal(t, uint(1), got[1].Threat.ID)
	assert.Equal(t, uint(3), got[2].Threat.ID)

	capped := SuggestThreats(req, threats, SuggestOptions{MinScore: 2.0, MaxResults: 2})
	assert.Len(t, capped, 2)
}

func TestSuggestReasonSampleCapped(t *testing.T) {
	words := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		words = append(words, fmt.Sprintf("token%02d", i))
	}
	title := strings.Join(words, " ")

	got := SuggestThreats(SuggestInput{Title: title}, []ThreatCandidate{threatCand(1, title)}, DefaultSuggestOptions())
	require.Len(t, got, 1)
	assert.Equal(t, 15.0, got[0].Score)

	require.Len(t, got[0].Reasons, 1)
	// 10 samples at most, even though 15 tokens intersect
	assert.Equal(t, 10, strings.Count(got[0].Reasons[0], "token"))
}

func TestSuggestEmptyInputsYieldNothing(t *testing.T) {
	threats := []ThreatCandidate{threatCand(1, "Broken access control")}

	assert.Empty(t, SuggestThreats(SuggestInput{}, threats, DefaultSuggestOptions()))
	assert.Empty(t, SuggestThreats(SuggestInput{Title: "Access control review"}, nil, DefaultSuggestOptions()))
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Access Control review", []string{"access", "control", "review"}},
		{"S3, EC2; and IAM!", []string{"s3", "ec2", "and", "iam"}},
		{"item 7.4.3 and a-b and x/y", []string{"item", "7.4.3", "and", "a-b", "and", "x/y"}},
		{"", []string{}},
		{"!!!", []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenize(tt.input), "input %q", tt.input)
	}
}
