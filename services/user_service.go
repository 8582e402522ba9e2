package services

import (
	"log"

	"github.com/teneola/staffx/config"
	"github.com/teneola/staffx/db"
	apiError "github.com/teneola/staffx/errors"
	"github.com/teneola/staffx/models"
	"github.com/teneola/staffx/services/jwt"
	"gorm.io/gorm"
)

type UserService interface {
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GetUserProfile(userID uint) (*models.User, error)
	GetAllUsers() ([]models.User, error)
}

type userService struct {
	Config   *config.Config
	userRepo db.UserRepository
}

func NewUserService(userRepo db.UserRepository, conf *config.Config) UserService {
	return &userService{
		Config:   conf,
		userRepo: userRepo,
	}
}

// LoginUser checks credentials and mints a token pair. Session issuance is a
// collaborator of the chat core: the tokens it returns are the credential the
// REST surface authorizes against.
func (s *userService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	user, err := s.userRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apiError.New("invalid email or password", 401)
		}
		log.Printf("LoginUser error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if err := user.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.New("invalid email or password", 401)
	}

	accessToken, refreshToken, err := jwt.GenerateTokenPair(user.Email, s.Config.JWTSecret, user.Role == models.RoleAdmin, user.ID)
	if err != nil {
		log.Printf("LoginUser token error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *userService) GetUserProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apiError.ErrNotFound
		}
		log.Printf("GetUserProfile error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return user, nil
}

func (s *userService) GetAllUsers() ([]models.User, error) {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		log.Printf("GetAllUsers error: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return users, nil
}
