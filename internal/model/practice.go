package model

// Practice is the tenant: one UK healthcare practice working through the
// DSPT self-assessment. All users and assessments are scoped to one.
//
// swagger:model Practice
type Practice struct {
	BaseModel
	Name         string `gorm:"size:255;not null" json:"name"`
	ODSCode      string `gorm:"size:20;unique;not null" json:"odsCode"` // NHS Organisation Data Service code
	Postcode     string `gorm:"size:10" json:"postcode"`
	ContactEmail string `gorm:"size:100" json:"contactEmail"`
	Disabled     bool   `gorm:"default:false" json:"disabled"`
}

func (Practice) TableName() string {
	return "practices"
}
