package repository

import (
	"dspt_pro_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaxonomyRepository struct {
	DB *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{DB: db}
}

// ListSections returns the full ordered taxonomy with questions preloaded.
func (r *TaxonomyRepository) ListSections() ([]model.Section, error) {
	var sections []model.Section
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("`order` asc, id asc")
		}).
		Order("number asc").
		Find(&sections).Error
	return sections, err
}

func (r *TaxonomyRepository) FindSectionByNumber(number int) (*model.Section, error) {
	var s model.Section
	err := r.DB.Where("number = ?", number).First(&s).Error
	return &s, err
}

func (r *TaxonomyRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	return &q, err
}

// UpsertSection inserts or updates a section by its stable number.
func (r *TaxonomyRepository) UpsertSection(s *model.Section) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
	}).Create(s).Error
}

// UpsertQuestion inserts or updates a question by its stable code.
func (r *TaxonomyRepository) UpsertQuestion(q *model.Question) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"section_id", "text", "guidance", "weight", "order", "mandatory"}),
	}).Create(q).Error
}

func (r *TaxonomyRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

func (r *TaxonomyRepository) CountQuestions() (int64, error) {
	var n int64
	err := r.DB.Model(&model.Question{}).Count(&n).Error
	return n, err
}
