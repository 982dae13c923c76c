package model

import (
	"time"
)

type AssessmentStatus string

const (
	AssessmentDraft      AssessmentStatus = "DRAFT"
	AssessmentInProgress AssessmentStatus = "IN_PROGRESS"
	AssessmentCompleted  AssessmentStatus = "COMPLETED"
)

// Assessment is one DSPT submission by a practice. The snapshot fields
// (TotalQuestions through PassStatus) are frozen at completion time and
// only ever rewritten through the scoring snapshot path. Scores are
// stored at full precision; rounding happens at the display boundary.
//
// swagger:model Assessment
type Assessment struct {
	BaseModel
	PracticeID uint             `gorm:"index;not null" json:"practiceId"`
	UserID     uint             `gorm:"index;not null" json:"userId"`
	User       *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title      string           `gorm:"size:255;not null" json:"title"`
	Status     AssessmentStatus `gorm:"type:enum('DRAFT','IN_PROGRESS','COMPLETED');default:'DRAFT'" json:"status"`

	TotalQuestions    int        `gorm:"default:0" json:"totalQuestions"`
	AnsweredQuestions int        `gorm:"default:0" json:"answeredQuestions"`
	PassedQuestions   int        `gorm:"default:0" json:"passedQuestions"`
	OverallScore      float64    `gorm:"type:double;default:0" json:"overallScore"`
	PassStatus        string     `gorm:"size:10" json:"passStatus"` // PASS | FAIL, empty until completed
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// Response records one answer within an assessment. IsCompliant is a
// cache of scoring.IsCompliant over Answer, written at every write site
// and re-derived from Answer at score time, never trusted blind.
//
// swagger:model Response
type Response struct {
	BaseModel
	AssessmentID uint   `gorm:"uniqueIndex:idx_assessment_question;not null" json:"assessmentId"`
	QuestionID   uint   `gorm:"uniqueIndex:idx_assessment_question;not null" json:"questionId"`
	Answer       string `gorm:"size:20;not null" json:"answer"`
	IsCompliant  bool   `gorm:"default:false" json:"isCompliant"`
	Evidence     string `gorm:"type:text" json:"evidence"`
	EvidenceFile string `gorm:"size:255" json:"evidenceFile"`
}

func (Response) TableName() string {
	return "responses"
}

// SectionScore rows are fully owned by the scoring snapshot path:
// created only as a byproduct of complete/recalculate, replaced as a
// whole set, never hand-edited.
//
// swagger:model SectionScore
type SectionScore struct {
	BaseModel
	AssessmentID      uint    `gorm:"index;not null" json:"assessmentId"`
	SectionID         uint    `gorm:"not null" json:"sectionId"`
	SectionTitle      string  `gorm:"size:255" json:"sectionTitle"`
	TotalQuestions    int     `gorm:"default:0" json:"totalQuestions"`
	AnsweredQuestions int     `gorm:"default:0" json:"answeredQuestions"`
	PassedQuestions   int     `gorm:"default:0" json:"passedQuestions"`
	Score             float64 `gorm:"type:double;default:0" json:"sectionScore"`
}

func (SectionScore) TableName() string {
	return "section_scores"
}
