package service

import (
	"dspt_pro_backend/internal/config"
	"dspt_pro_backend/internal/model"
	"dspt_pro_backend/internal/repository"
	"dspt_pro_backend/internal/util"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo     *repository.UserRepository
	PracticeRepo *repository.PracticeRepository
	Cfg          *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, practiceRepo *repository.PracticeRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:     userRepo,
		PracticeRepo: practiceRepo,
		Cfg:          cfg,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	ODSCode  string `json:"odsCode" binding:"required"`
}

// Register creates a staff user under an existing practice, looked up by
// its ODS code. Practices themselves are created by admins.
func (s *AuthService) Register(req RegisterRequest) (*model.User, error) {
	practice, err := s.PracticeRepo.FindByODSCode(req.ODSCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPracticeNotFound
		}
		return nil, err
	}
	if practice.Disabled {
		return nil, util.ErrPracticeDisabled
	}

	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   string(hashedPassword),
		Role:       model.Staff,
		PracticeID: practice.ID,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}
	if user.Disabled {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	_ = s.UserRepo.UpdateLastLogin(user.ID)

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetUser(userID uint) (*model.User, error) {
	return s.UserRepo.FindByID(userID)
}
