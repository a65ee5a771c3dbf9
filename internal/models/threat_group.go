package models

// ThreatGroup is a named bucket of threat-catalog requirements.
type ThreatGroup struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:128;uniqueIndex;not null"`
}

// ThreatGroupMap links a group to a threat-catalog requirement, unique per
// (group, requirement) pair.
type ThreatGroupMap struct {
	GroupID       uint `gorm:"primaryKey"`
	RequirementID uint `gorm:"primaryKey"`

	Group       ThreatGroup `gorm:"foreignKey:GroupID"`
	Requirement Requirement `gorm:"foreignKey:RequirementID"`
}
