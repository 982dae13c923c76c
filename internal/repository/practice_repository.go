package repository

import (
	"dspt_pro_backend/internal/model"

	"gorm.io/gorm"
)

type PracticeRepository struct {
	DB *gorm.DB
}

func NewPracticeRepository(db *gorm.DB) *PracticeRepository {
	return &PracticeRepository{DB: db}
}

func (r *PracticeRepository) Create(p *model.Practice) error {
	return r.DB.Create(p).Error
}

func (r *PracticeRepository) FindByID(id uint) (*model.Practice, error) {
	var p model.Practice
	err := r.DB.First(&p, id).Error
	return &p, err
}

func (r *PracticeRepository) FindByODSCode(code string) (*model.Practice, error) {
	var p model.Practice
	err := r.DB.Where("ods_code = ?", code).First(&p).Error
	return &p, err
}

func (r *PracticeRepository) Update(p *model.Practice) error {
	return r.DB.Save(p).Error
}

func (r *PracticeRepository) List(page, limit int) ([]model.Practice, int64, error) {
	var ps []model.Practice
	var total int64
	query := r.DB.Model(&model.Practice{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("name asc").Offset(offset).Limit(limit).Find(&ps).Error
	return ps, total, err
}
