package service

import (
	"dspt_pro_backend/internal/model"
	"dspt_pro_backend/internal/repository"
	"dspt_pro_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type PracticeService struct {
	Repo     *repository.PracticeRepository
	UserRepo *repository.UserRepository
}

func NewPracticeService(repo *repository.PracticeRepository, userRepo *repository.UserRepository) *PracticeService {
	return &PracticeService{Repo: repo, UserRepo: userRepo}
}

type PracticeRequest struct {
	Name         string `json:"name" binding:"required"`
	ODSCode      string `json:"odsCode" binding:"required"`
	Postcode     string `json:"postcode"`
	ContactEmail string `json:"contactEmail"`
}

func (s *PracticeService) Create(req PracticeRequest) (*model.Practice, error) {
	if _, err := s.Repo.FindByODSCode(req.ODSCode); err == nil {
		return nil, util.ErrODSCodeRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &model.Practice{
		Name:         req.Name,
		ODSCode:      req.ODSCode,
		Postcode:     req.Postcode,
		ContactEmail: req.ContactEmail,
	}
	if err := s.Repo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PracticeService) Get(id uint) (*model.Practice, error) {
	return s.Repo.FindByID(id)
}

func (s *PracticeService) List(page, limit int) ([]model.Practice, int64, error) {
	return s.Repo.List(page, limit)
}

func (s *PracticeService) Update(id uint, req PracticeRequest) (*model.Practice, error) {
	p, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	p.Name = req.Name
	p.Postcode = req.Postcode
	p.ContactEmail = req.ContactEmail
	if err := s.Repo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PracticeService) SetDisabled(id uint, disabled bool) error {
	p, err := s.Repo.FindByID(id)
	if err != nil {
		return err
	}
	p.Disabled = disabled
	return s.Repo.Update(p)
}

func (s *PracticeService) ListUsers(practiceID uint, page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.ListByPractice(practiceID, page, limit)
}
