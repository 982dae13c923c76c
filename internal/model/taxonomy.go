package model

// Section and Question form the DSPT question taxonomy. Seeded once and
// treated as immutable reference data for the lifetime of a running
// assessment; admin edits go through upsert-by-stable-code.

// swagger:model Section
type Section struct {
	BaseModel
	Number      int        `gorm:"uniqueIndex;not null" json:"number"` // stable NDG standard number
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Questions   []Question `gorm:"foreignKey:SectionID" json:"questions,omitempty"`
}

func (Section) TableName() string {
	return "sections"
}

// swagger:model Question
type Question struct {
	BaseModel
	SectionID uint   `gorm:"index;not null" json:"sectionId"`
	Code      string `gorm:"size:20;uniqueIndex;not null" json:"code"` // e.g. "1.2.3"
	Text      string `gorm:"type:text;not null" json:"text"`
	Guidance  string `gorm:"type:text" json:"guidance"`
	// Weight is persisted and surfaced but does not participate in any
	// score formula: every question scores as weight 1.
	Weight    int  `gorm:"default:1" json:"weight"`
	Order     int  `gorm:"default:0" json:"order"`
	Mandatory bool `gorm:"default:true" json:"mandatory"`
}

func (Question) TableName() string {
	return "questions"
}
