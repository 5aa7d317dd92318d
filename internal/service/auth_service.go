package service

import (
	"errors"

	"go-pos-api/internal/model"
	"go-pos-api/internal/repository"
	"go-pos-api/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
}

type RegisterRequest struct {
	FullName             string    `json:"full_name" validate:"required,max=255"`
	Username             string    `json:"username" validate:"required,max=255"`
	Password             string    `json:"password" validate:"required,min=4,eqfield=PasswordConfirmation"`
	PasswordConfirmation string    `json:"password_confirmation" validate:"required"`
	Type                 string    `json:"type" validate:"required"`
	ShopID               uuid.UUID `json:"shop_id" validate:"uuid_required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type AuthService interface {
	Login(req *LoginRequest) (*LoginResponse, error)
	Register(req *RegisterRequest) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	shopRepo repository.ShopRepository
}

func NewAuthService(userRepo repository.UserRepository, shopRepo repository.ShopRepository) AuthService {
	return &authService{userRepo: userRepo, shopRepo: shopRepo}
}

func (s *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.FullName, user.Type, user.ShopID)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{Token: token, User: user}, nil
}

func (s *authService) Register(req *RegisterRequest) (*model.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.shopRepo.FindByID(req.ShopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, existsError("shop_id")
		}
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, ErrUsernameTaken
	}

	user := &model.User{
		Username: req.Username,
		FullName: req.FullName,
		Type:     req.Type,
		ShopID:   req.ShopID,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
