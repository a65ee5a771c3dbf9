package models

// Mapping is a reusable cloud-control check definition.
type Mapping struct {
	Code              string `gorm:"size:16;primaryKey" json:"code"`
	Category          string `gorm:"size:64" json:"category"`
	Service           string `gorm:"size:64" json:"service"`
	ConsolePath       string `gorm:"type:text" json:"console_path"`
	CheckHow          string `gorm:"type:text" json:"check_how"`
	CLICmd            string `gorm:"type:text" json:"cli_cmd"`
	ReturnField       string `gorm:"size:128" json:"return_field"`
	CompliantValue    string `gorm:"size:128" json:"compliant_value"`
	NonCompliantValue string `gorm:"size:128" json:"non_compliant_value"`
	ConsoleFix        string `gorm:"type:text" json:"console_fix"`
	CLIFixCmd         string `gorm:"type:text" json:"cli_fix_cmd"`
}

// RequirementMapping links a requirement to a control check.
type RequirementMapping struct {
	RequirementID uint   `gorm:"primaryKey"`
	MappingCode   string `gorm:"size:16;primaryKey"`
	RelationType  string `gorm:"size:16;default:direct"` // direct / partial / na

	Requirement Requirement
	Mapping     Mapping `gorm:"foreignKey:MappingCode;references:Code"`
}
