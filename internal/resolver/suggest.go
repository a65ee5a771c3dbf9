package resolver

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/models"
)

const reasonSampleMax = 10

// SuggestOptions tunes the heuristic scorer. The defaults come from the
// original tuning and are deliberately overridable rather than baked in.
type SuggestOptions struct {
	MinScore   float64
	MaxResults int
}

func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{MinScore: 2.0, MaxResults: 8}
}

// SuggestInput is everything the scorer reads about a requirement: its
// visible text plus the structured codes and service/category keywords of
// its attached control checks.
type SuggestInput struct {
	Title       string
	Description string
	Codes       []string
	Keywords    []string
}

// ThreatCandidate is a threat-catalog requirement plus the codes of its
// attached control checks. Candidate order is catalog order and is the
// tie-breaker for equal scores.
type ThreatCandidate struct {
	Requirement models.Requirement
	Codes       []string
}

// Suggestion is one scored, explained candidate link. Reasons name every
// tier that contributed, so the caller can audit the match.
type Suggestion struct {
	Threat  RequirementMini `json:"threat"`
	Score   float64         `json:"score"`
	Reasons []string        `json:"reasons"`
}

// tier weights: structured codes outrank service keywords outrank plain
// text overlap
const (
	codeWeight    = 3.0
	keywordWeight = 2.0
	textWeight    = 1.0
)

var tokenSplitRe = regexp.MustCompile(`[^\w./-]+`)

// tokenize lower-cases s and splits it into word tokens, keeping hyphen,
// dot and slash so item codes and service names survive intact.
func tokenize(s string) []string {
	parts := tokenSplitRe.Split(strings.ToLower(s), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// intersect returns the members of a also present in b, sorted so that
// reason strings are deterministic.
func intersect(a, b map[string]struct{}) []string {
	var shared []string
	for t := range a {
		if _, ok := b[t]; ok {
			shared = append(shared, t)
		}
	}
	sort.Strings(shared)
	return shared
}

// SuggestThreats scores every candidate threat against the requirement and
// returns the candidates at or above opts.MinScore, best first, capped at
// opts.MaxResults. Missing descriptions, codes or keywords shrink the word
// bags; an empty bag yields no suggestions, never an error.
func SuggestThreats(req SuggestInput, threats []ThreatCandidate, opts SuggestOptions) []Suggestion {
	reqCodes := toSet(tokenize(strings.Join(req.Codes, " ")))
	reqKeywords := toSet(tokenize(strings.Join(req.Keywords, " ")))

	var bag []string
	bag = append(bag, tokenize(req.Title)...)
	bag = append(bag, tokenize(req.Description)...)
	bag = append(bag, tokenize(strings.Join(req.Codes, " "))...)
	bag = append(bag, tokenize(strings.Join(req.Keywords, " "))...)
	reqBag := toSet(bag)

	var out []Suggestion
	for _, cand := range threats {
		threatBag := toSet(tokenize(cand.Requirement.Title))
		threatCodes := toSet(tokenize(strings.Join(cand.Codes, " ")))

		var score float64
		var reasons []string

		// code tier first, then keyword, then text: contribution order is
		// part of the contract so tie-breaking stays deterministic
		if shared := intersect(reqCodes, threatCodes); len(shared) > 0 {
			score += codeWeight * float64(len(shared))
			reasons = append(reasons, fmt.Sprintf("mapping_codes intersection: %v", shared))
		}
		if shared := intersect(reqKeywords, threatBag); len(shared) > 0 {
			score += keywordWeight * float64(len(shared))
			reasons = append(reasons, fmt.Sprintf("service keyword match: %v", shared))
		}
		if shared := intersect(reqBag, threatBag); len(shared) > 0 {
			score += textWeight * float64(len(shared))
			if len(shared) > reasonSampleMax {
				shared = shared[:reasonSampleMax]
			}
			reasons = append(reasons, fmt.Sprintf("content token intersection (sample): %v", shared))
		}

		if score < opts.MinScore {
			continue
		}
		out = append(out, Suggestion{
			Threat:  miniFromRequirement(cand.Requirement),
			Score:   score,
			Reasons: reasons,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if opts.MaxResults > 0 && len(out) > opts.MaxResults {
		out = out[:opts.MaxResults]
	}
	return out
}
