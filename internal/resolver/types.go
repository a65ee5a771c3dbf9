package resolver

import "github.com/BOB-DSPM/DSPM-Compliance-show/internal/models"

// FrameworkCount is one row of the per-framework stats view.
type FrameworkCount struct {
	Framework string `json:"framework"`
	Count     int    `json:"count"`
}

// RequirementMini is the compact cross-reference view of a requirement.
type RequirementMini struct {
	ID            uint   `json:"id"`
	FrameworkCode string `json:"framework_code"`
	ItemCode      string `json:"item_code,omitempty"`
	Title         string `json:"title"`
	Regulation    string `json:"regulation,omitempty"`
}

// ApplicableHit is one forward-parsed annotation token together with the
// compliance requirements it resolved to.
type ApplicableHit struct {
	Raw     string            `json:"raw"`
	Code    string            `json:"code,omitempty"`
	Title   string            `json:"title,omitempty"`
	Matches []RequirementMini `json:"matches"`
}

// RequirementRow is the per-requirement result the transport layer serves.
// Threat-catalog rows carry ApplicableHits; compliance rows carry
// ThreatHits, and Suggestions when no direct threat link was found.
type RequirementRow struct {
	ID                   uint   `json:"id"`
	ItemCode             string `json:"item_code,omitempty"`
	Title                string `json:"title"`
	MappingStatus        string `json:"mapping_status,omitempty"`
	Regulation           string `json:"regulation,omitempty"`
	Auditable            string `json:"auditable,omitempty"`
	AuditMethod          string `json:"audit_method,omitempty"`
	RecommendedFix       string `json:"recommended_fix,omitempty"`
	ApplicableCompliance string `json:"applicable_compliance,omitempty"`

	ThreatGroup  string   `json:"threat_group,omitempty"`
	ThreatGroups []string `json:"threat_groups,omitempty"`

	ApplicableHits []ApplicableHit   `json:"applicable_hits,omitempty"`
	ThreatHits     []RequirementMini `json:"threat_hits,omitempty"`
	Suggestions    []Suggestion      `json:"suggestions,omitempty"`
}

// RequirementDetail is a single requirement plus its attached control
// checks.
type RequirementDetail struct {
	Framework   string           `json:"framework"`
	Regulation  string           `json:"regulation,omitempty"`
	Requirement RequirementRow   `json:"requirement"`
	Mappings    []models.Mapping `json:"mappings"`
}

func miniFromRequirement(r models.Requirement) RequirementMini {
	return RequirementMini{
		ID:            r.ID,
		FrameworkCode: r.FrameworkCode,
		ItemCode:      r.ItemCode,
		Title:         r.Title,
		Regulation:    r.Description,
	}
}

func rowFromRequirement(r models.Requirement) RequirementRow {
	return RequirementRow{
		ID:                   r.ID,
		ItemCode:             r.ItemCode,
		Title:                r.Title,
		MappingStatus:        r.MappingStatus,
		Regulation:           r.Description,
		Auditable:            r.Auditable,
		AuditMethod:          r.AuditMethod,
		RecommendedFix:       r.RecommendedFix,
		ApplicableCompliance: r.ApplicableCompliance,
	}
}
