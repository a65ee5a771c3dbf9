package models

// Framework is a named set of requirements: a regulation (GDPR, ISMS-P,
// iso-27001) or the threat catalog.
type Framework struct {
	Code string `gorm:"size:64;primaryKey"`
	Name string `gorm:"size:128"`

	Requirements []Requirement `gorm:"foreignKey:FrameworkCode;references:Code"`
}

// Requirement is a single item inside a framework. For the threat catalog
// framework the row represents a threat and ApplicableCompliance carries the
// semicolon-delimited annotation that gets forward-parsed.
type Requirement struct {
	ID            uint   `gorm:"primaryKey"`
	FrameworkCode string `gorm:"size:64;index;not null"`
	ItemCode      string `gorm:"size:128"`
	Title         string `gorm:"size:512;not null"`
	Description   string `gorm:"type:text"`

	MappingStatus        string `gorm:"size:64"`
	Auditable            string `gorm:"size:64"`
	AuditMethod          string `gorm:"type:text"`
	RecommendedFix       string `gorm:"type:text"`
	ApplicableCompliance string `gorm:"type:text"`
}
