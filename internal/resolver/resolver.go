// Package resolver is the requirement-to-threat cross-reference engine. It
// forward-parses the threat catalog's applicable-compliance annotations into
// compliance hits, reverse-searches the catalog for compliance requirements,
// resolves threat groups, and falls back to a scored suggestion list when no
// direct link exists. All operations are bounded, synchronous reads over a
// Store snapshot; data-quality problems degrade to empty results, never to
// errors.
package resolver

import (
	"sort"

	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/models"
)

// Store is the read surface the engine needs from persistence. Every method
// returns stably ordered rows; only store failures surface as errors.
type Store interface {
	ThreatFramework() string
	AllFrameworkCodes() ([]string, error)
	RequirementsByFramework(framework string) ([]models.Requirement, error)
	RequirementByID(framework string, id uint) (*models.Requirement, error)
	RequirementsMatching(itemCode, title string) ([]models.Requirement, error)
	ThreatsMatchingCompliance(itemCode, title string) ([]models.Requirement, error)
	GroupNamesForRequirementIDs(ids []uint) ([]string, error)
	GroupNamesForThreatTitle(title string, exact bool) ([]string, error)
	GroupNamesByThreatRequirement() (map[uint][]string, error)
	MappingsForRequirement(id uint) ([]models.Mapping, error)
	MappingsByRequirementIDs(ids []uint) (map[uint][]models.Mapping, error)
}

type Engine struct {
	store   Store
	suggest SuggestOptions
}

func New(store Store, suggest SuggestOptions) *Engine {
	return &Engine{store: store, suggest: suggest}
}

// FrameworkCounts returns the number of requirements per framework, sorted
// by framework code.
func (e *Engine) FrameworkCounts() ([]FrameworkCount, error) {
	codes, err := e.store.AllFrameworkCodes()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, c := range codes {
		counts[c]++
	}
	out := make([]FrameworkCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, FrameworkCount{Framework: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Framework < out[j].Framework })
	return out, nil
}

// ListRequirements resolves every requirement of a framework. Threat-catalog
// rows get forward applicable hits plus their own groups; all other
// frameworks get reverse threat hits, the groups those threats belong to,
// and suggestions when the reverse search comes up empty. An unknown
// framework yields an empty list.
func (e *Engine) ListRequirements(framework string) ([]RequirementRow, error) {
	rows, err := e.store.RequirementsByFramework(framework)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	if framework == e.store.ThreatFramework() {
		return e.listThreatRows(rows)
	}
	return e.listComplianceRows(rows)
}

func (e *Engine) listThreatRows(rows []models.Requirement) ([]RequirementRow, error) {
	groupsByID, err := e.store.GroupNamesByThreatRequirement()
	if err != nil {
		return nil, err
	}

	out := make([]RequirementRow, 0, len(rows))
	for _, r := range rows {
		hits, err := e.applicableHits(r.ApplicableCompliance)
		if err != nil {
			return nil, err
		}
		row := rowFromRequirement(r)
		row.ThreatGroups = groupsByID[r.ID]
		row.ThreatGroup = firstOf(row.ThreatGroups)
		row.ApplicableHits = hits
		out = append(out, row)
	}
	return out, nil
}

func (e *Engine) listComplianceRows(rows []models.Requirement) ([]RequirementRow, error) {
	// loaded once, on the first row that needs suggestions
	var candidates []ThreatCandidate
	haveCandidates := false

	out := make([]RequirementRow, 0, len(rows))
	for _, r := range rows {
		threats, err := e.store.ThreatsMatchingCompliance(r.ItemCode, r.Title)
		if err != nil {
			return nil, err
		}

		row := rowFromRequirement(r)
		row.ThreatHits = minisFromRequirements(threats)

		if len(threats) > 0 {
			ids := make([]uint, 0, len(threats))
			for _, t := range threats {
				ids = append(ids, t.ID)
			}
			groups, err := e.store.GroupNamesForRequirementIDs(ids)
			if err != nil {
				return nil, err
			}
			row.ThreatGroups = groups
			row.ThreatGroup = firstOf(groups)
		} else {
			if !haveCandidates {
				candidates, err = e.threatCandidates()
				if err != nil {
					return nil, err
				}
				haveCandidates = true
			}
			row.Suggestions, err = e.suggestFor(r, candidates)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// RequirementDetail resolves one requirement plus its attached control
// checks. Returns (nil, nil) when the requirement does not exist.
func (e *Engine) RequirementDetail(framework string, id uint) (*RequirementDetail, error) {
	req, err := e.store.RequirementByID(framework, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, nil
	}

	maps, err := e.store.MappingsForRequirement(req.ID)
	if err != nil {
		return nil, err
	}

	row := rowFromRequirement(*req)
	if framework == e.store.ThreatFramework() {
		row.ApplicableHits, err = e.applicableHits(req.ApplicableCompliance)
		if err != nil {
			return nil, err
		}
		row.ThreatGroups, err = e.store.GroupNamesForRequirementIDs([]uint{req.ID})
		if err != nil {
			return nil, err
		}
		row.ThreatGroup = firstOf(row.ThreatGroups)
	} else {
		threats, err := e.store.ThreatsMatchingCompliance(req.ItemCode, req.Title)
		if err != nil {
			return nil, err
		}
		row.ThreatHits = minisFromRequirements(threats)

		if len(threats) > 0 {
			ids := make([]uint, 0, len(threats))
			for _, t := range threats {
				ids = append(ids, t.ID)
			}
			row.ThreatGroups, err = e.store.GroupNamesForRequirementIDs(ids)
			if err != nil {
				return nil, err
			}
			row.ThreatGroup = firstOf(row.ThreatGroups)
		} else {
			candidates, err := e.threatCandidates()
			if err != nil {
				return nil, err
			}
			row.Suggestions, err = e.suggestFor(*req, candidates)
			if err != nil {
				return nil, err
			}
		}
	}

	return &RequirementDetail{
		Framework:   req.FrameworkCode,
		Regulation:  req.Description,
		Requirement: row,
		Mappings:    maps,
	}, nil
}

// applicableHits forward-parses an annotation and resolves every token
// against the non-threat frameworks. A token with neither code nor title
// still appears in the result, with no matches.
func (e *Engine) applicableHits(annotation string) ([]ApplicableHit, error) {
	tokens := ParseAnnotation(annotation)
	if len(tokens) == 0 {
		return nil, nil
	}
	hits := make([]ApplicableHit, 0, len(tokens))
	for _, t := range tokens {
		matches, err := e.store.RequirementsMatching(t.Code, t.Title)
		if err != nil {
			return nil, err
		}
		hits = append(hits, ApplicableHit{
			Raw:     t.Raw,
			Code:    t.Code,
			Title:   t.Title,
			Matches: minisFromRequirements(matches),
		})
	}
	return hits, nil
}

// threatCandidates loads the whole threat catalog plus each threat's
// control-check codes, in catalog order.
func (e *Engine) threatCandidates() ([]ThreatCandidate, error) {
	threats, err := e.store.RequirementsByFramework(e.store.ThreatFramework())
	if err != nil {
		return nil, err
	}
	if len(threats) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(threats))
	for _, t := range threats {
		ids = append(ids, t.ID)
	}
	mapsByID, err := e.store.MappingsByRequirementIDs(ids)
	if err != nil {
		return nil, err
	}

	out := make([]ThreatCandidate, 0, len(threats))
	for _, t := range threats {
		out = append(out, ThreatCandidate{
			Requirement: t,
			Codes:       mappingCodes(mapsByID[t.ID]),
		})
	}
	return out, nil
}

func (e *Engine) suggestFor(req models.Requirement, candidates []ThreatCandidate) ([]Suggestion, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	maps, err := e.store.MappingsForRequirement(req.ID)
	if err != nil {
		return nil, err
	}
	input := SuggestInput{
		Title:       req.Title,
		Description: req.Description,
		Codes:       mappingCodes(maps),
		Keywords:    mappingKeywords(maps),
	}
	return SuggestThreats(input, candidates, e.suggest), nil
}

func mappingCodes(maps []models.Mapping) []string {
	out := make([]string, 0, len(maps))
	for _, m := range maps {
		if m.Code != "" {
			out = append(out, m.Code)
		}
	}
	return out
}

func mappingKeywords(maps []models.Mapping) []string {
	var out []string
	for _, m := range maps {
		if m.Service != "" {
			out = append(out, m.Service)
		}
		if m.Category != "" {
			out = append(out, m.Category)
		}
	}
	return out
}

func minisFromRequirements(rows []models.Requirement) []RequirementMini {
	if len(rows) == 0 {
		return nil
	}
	out := make([]RequirementMini, 0, len(rows))
	for _, r := range rows {
		out = append(out, miniFromRequirement(r))
	}
	return out
}

func firstOf(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
