package database

import (
	"errors"
	"strings"

	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/models"

	"gorm.io/gorm"
)

// reverse-search titles longer than this many characters are truncated
// before the LIKE scan; recall is traded for query cost and callers must
// tolerate the coarsening
const reverseTitleMax = 64

// Store exposes the read queries the resolver consumes. All queries are
// pure reads with stable ordering; the resolver never sees the schema.
type Store struct {
	db              *gorm.DB
	threatFramework string
}

func NewStore(db *gorm.DB, threatFramework string) *Store {
	return &Store{db: db, threatFramework: threatFramework}
}

func (s *Store) ThreatFramework() string {
	return s.threatFramework
}

// AllFrameworkCodes returns one entry per requirement row, so the caller
// can aggregate counts without depending on DB-specific GROUP BY behavior.
func (s *Store) AllFrameworkCodes() ([]string, error) {
	var codes []string
	err := s.db.Model(&models.Requirement{}).
		Order("framework_code asc, id asc").
		Pluck("framework_code", &codes).Error
	return codes, err
}

func (s *Store) RequirementsByFramework(framework string) ([]models.Requirement, error) {
	var rows []models.Requirement
	err := s.db.
		Where("framework_code = ?", framework).
		Order("id asc").
		Find(&rows).Error
	return rows, err
}

func (s *Store) RequirementByID(framework string, id uint) (*models.Requirement, error) {
	var req models.Requirement
	err := s.db.
		Where("framework_code = ? AND id = ?", framework, id).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// RequirementsMatching finds compliance requirements (never threat-catalog
// rows) by exact item code or case-insensitive title containment. Both
// criteria absent yields an empty result, never a full scan.
func (s *Store) RequirementsMatching(itemCode, title string) ([]models.Requirement, error) {
	if itemCode == "" && title == "" {
		return nil, nil
	}

	q := s.db.Where("framework_code <> ?", s.threatFramework)
	switch {
	case itemCode != "" && title != "":
		q = q.Where("item_code = ? OR LOWER(title) LIKE LOWER(?)", itemCode, containsPattern(title))
	case itemCode != "":
		q = q.Where("item_code = ?", itemCode)
	default:
		q = q.Where("LOWER(title) LIKE LOWER(?)", containsPattern(title))
	}

	var rows []models.Requirement
	err := q.Order("framework_code asc, id asc").Find(&rows).Error
	return rows, err
}

// ThreatsMatchingCompliance reverse-searches the threat catalog for rows
// whose applicable_compliance annotation mentions the given item code or
// title fragment.
func (s *Store) ThreatsMatchingCompliance(itemCode, title string) ([]models.Requirement, error) {
	itemCode = strings.TrimSpace(itemCode)
	title = strings.TrimSpace(title)
	// cut on rune boundaries: a byte slice can split a multibyte title
	// mid-rune and hand the driver an invalid-UTF-8 pattern
	if r := []rune(title); len(r) > reverseTitleMax {
		title = string(r[:reverseTitleMax])
	}
	if itemCode == "" && title == "" {
		return nil, nil
	}

	q := s.db.Where("framework_code = ?", s.threatFramework)
	switch {
	case itemCode != "" && title != "":
		q = q.Where(
			"LOWER(applicable_compliance) LIKE LOWER(?) OR LOWER(applicable_compliance) LIKE LOWER(?)",
			containsPattern(itemCode), containsPattern(title),
		)
	case itemCode != "":
		q = q.Where("LOWER(applicable_compliance) LIKE LOWER(?)", containsPattern(itemCode))
	default:
		q = q.Where("LOWER(applicable_compliance) LIKE LOWER(?)", containsPattern(title))
	}

	var rows []models.Requirement
	err := q.Order("id asc").Find(&rows).Error
	return rows, err
}

// GroupNamesForRequirementIDs returns the names of groups owning any of the
// given threat-catalog requirements, sorted and deduplicated.
func (s *Store) GroupNamesForRequirementIDs(ids []uint) ([]string, error) {
	seen := make(map[uint]struct{}, len(ids))
	uniq := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	if len(uniq) == 0 {
		return nil, nil
	}

	var names []string
	err := s.db.Model(&models.ThreatGroup{}).
		Joins("JOIN threat_group_maps ON threat_group_maps.group_id = threat_groups.id").
		Where("threat_group_maps.requirement_id IN ?", uniq).
		Order("threat_groups.name asc").
		Pluck("threat_groups.name", &names).Error
	if err != nil {
		return nil, err
	}
	return dedupeStrings(names), nil
}

// GroupNamesForThreatTitle returns the groups owning threats whose title
// matches. With exact=true only case-insensitive equality counts; otherwise
// substring containment.
func (s *Store) GroupNamesForThreatTitle(title string, exact bool) ([]string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	q := s.db.Model(&models.ThreatGroup{}).
		Joins("JOIN threat_group_maps ON threat_group_maps.group_id = threat_groups.id").
		Joins("JOIN requirements ON requirements.id = threat_group_maps.requirement_id").
		Where("requirements.framework_code = ?", s.threatFramework)
	if exact {
		q = q.Where("LOWER(requirements.title) = LOWER(?)", title)
	} else {
		q = q.Where("LOWER(requirements.title) LIKE LOWER(?)", containsPattern(title))
	}

	var names []string
	err := q.Order("threat_groups.name asc").Pluck("threat_groups.name", &names).Error
	if err != nil {
		return nil, err
	}
	return dedupeStrings(names), nil
}

// GroupNamesByThreatRequirement returns, for every threat-catalog
// requirement that belongs to at least one group, its group names.
func (s *Store) GroupNamesByThreatRequirement() (map[uint][]string, error) {
	var links []models.ThreatGroupMap
	err := s.db.
		Preload("Group").
		Joins("JOIN requirements ON requirements.id = threat_group_maps.requirement_id").
		Where("requirements.framework_code = ?", s.threatFramework).
		Order("threat_group_maps.requirement_id asc, threat_group_maps.group_id asc").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint][]string)
	for _, l := range links {
		if l.Group.Name == "" {
			continue
		}
		out[l.RequirementID] = append(out[l.RequirementID], l.Group.Name)
	}
	for id, names := range out {
		out[id] = dedupeStrings(names)
	}
	return out, nil
}

func (s *Store) MappingsForRequirement(id uint) ([]models.Mapping, error) {
	var maps []models.Mapping
	err := s.db.Model(&models.Mapping{}).
		Joins("JOIN requirement_mappings ON requirement_mappings.mapping_code = mappings.code").
		Where("requirement_mappings.requirement_id = ?", id).
		Order("mappings.code asc").
		Find(&maps).Error
	return maps, err
}

// MappingsByRequirementIDs batches MappingsForRequirement for the scorer.
func (s *Store) MappingsByRequirementIDs(ids []uint) (map[uint][]models.Mapping, error) {
	if len(ids) == 0 {
		return map[uint][]models.Mapping{}, nil
	}

	var links []models.RequirementMapping
	err := s.db.
		Preload("Mapping").
		Where("requirement_id IN ?", ids).
		Order("requirement_id asc, mapping_code asc").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint][]models.Mapping, len(ids))
	for _, l := range links {
		if l.Mapping.Code == "" {
			continue
		}
		out[l.RequirementID] = append(out[l.RequirementID], l.Mapping)
	}
	return out, nil
}

// containsPattern wraps a search key for LIKE. Case folding happens in SQL
// on both sides of the comparison, so the pattern stays unfolded here: the
// DB's LOWER() and Go's ToLower disagree on non-ASCII input.
func containsPattern(s string) string {
	return "%" + strings.TrimSpace(s) + "%"
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
