// Package ingest seeds the store from CSV exports. It expects canonical
// column headers; alias normalization is the exporter's job.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/config"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/models"

	"gorm.io/gorm"
)

// SeedIfNeeded loads the CSV files when the store is empty or a reload is
// forced. A store that already has frameworks is left alone.
func SeedIfNeeded(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.Framework{}).Count(&count).Error; err != nil {
		return err
	}
	need := cfg.ForceSeed || count == 0
	log.Printf("framework_count=%d force=%v -> need_seed=%v", count, cfg.ForceSeed, need)
	if !need {
		return nil
	}
	return Run(db, cfg)
}

// Run replaces the catalog content with the CSV content, atomically.
func Run(db *gorm.DB, cfg *config.Config) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&models.ThreatGroupMap{},
			&models.ThreatGroup{},
			&models.RequirementMapping{},
			&models.Mapping{},
			&models.Requirement{},
			&models.Framework{},
		} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}

		if cfg.MappingsCSV != "" {
			n, err := loadMappings(tx, cfg.MappingsCSV)
			if err != nil {
				return fmt.Errorf("load mappings %s: %w", cfg.MappingsCSV, err)
			}
			log.Printf("seeded %d mappings from %s", n, cfg.MappingsCSV)
		}
		if cfg.RequirementsCSV != "" {
			n, err := loadRequirements(tx, cfg.RequirementsCSV, cfg.ThreatFramework)
			if err != nil {
				return fmt.Errorf("load requirements %s: %w", cfg.RequirementsCSV, err)
			}
			log.Printf("seeded %d requirements from %s", n, cfg.RequirementsCSV)
		}
		return nil
	})
}

// record is one CSV row addressed by header name.
type record struct {
	header map[string]int
	fields []string
}

func (r record) get(name string) string {
	idx, ok := r.header[name]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[idx])
}

func readAll(path string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1

	head, err := rd.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) // exporters add a BOM
		header[h] = i
	}

	var out []record
	for {
		fields, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, record{header: header, fields: fields})
	}
	return out, nil
}

func loadMappings(tx *gorm.DB, path string) (int, error) {
	rows, err := readAll(path)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, r := range rows {
		code := r.get("code")
		if code == "" {
			continue
		}
		m := models.Mapping{
			Code:              code,
			Category:          r.get("category"),
			Service:           r.get("service"),
			ConsolePath:       r.get("console_path"),
			CheckHow:          r.get("check_how"),
			CLICmd:            r.get("cli_cmd"),
			ReturnField:       r.get("return_field"),
			CompliantValue:    r.get("compliant_value"),
			NonCompliantValue: r.get("non_compliant_value"),
			ConsoleFix:        r.get("console_fix"),
			CLIFixCmd:         r.get("cli_fix_cmd"),
		}
		if err := tx.Create(&m).Error; err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func loadRequirements(tx *gorm.DB, path, threatFramework string) (int, error) {
	rows, err := readAll(path)
	if err != nil {
		return 0, err
	}

	frameworks := map[string]bool{}
	groups := map[string]uint{}
	n := 0

	for _, r := range rows {
		fcode := r.get("framework_code")
		title := r.get("title")
		if fcode == "" || title == "" {
			continue
		}

		if !frameworks[fcode] {
			name := r.get("framework_name")
			if name == "" {
				name = fcode
			}
			if err := tx.Create(&models.Framework{Code: fcode, Name: name}).Error; err != nil {
				return n, err
			}
			frameworks[fcode] = true
		}

		req := models.Requirement{
			FrameworkCode:        fcode,
			ItemCode:             r.get("item_code"),
			Title:                title,
			Description:          r.get("description"),
			MappingStatus:        r.get("mapping_status"),
			Auditable:            r.get("auditable"),
			AuditMethod:          r.get("audit_method"),
			RecommendedFix:       r.get("recommended_fix"),
			ApplicableCompliance: r.get("applicable_compliance"),
		}
		if err := tx.Create(&req).Error; err != nil {
			return n, err
		}
		n++

		for _, mc := range splitList(r.get("mapping_codes")) {
			link := models.RequirementMapping{
				RequirementID: req.ID,
				MappingCode:   mc,
				RelationType:  "direct",
			}
			if err := tx.Create(&link).Error; err != nil {
				return n, err
			}
		}

		// group assignments only make sense on threat rows
		if fcode != threatFramework {
			continue
		}
		for _, gname := range splitList(r.get("threat_group")) {
			gid, ok := groups[gname]
			if !ok {
				g := models.ThreatGroup{Name: gname}
				if err := tx.Create(&g).Error; err != nil {
					return n, err
				}
				gid = g.ID
				groups[gname] = gid
			}
			link := models.ThreatGroupMap{GroupID: gid, RequirementID: req.ID}
			if err := tx.Create(&link).Error; err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ";") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
