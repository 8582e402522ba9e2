package db

import (
	"github.com/pkg/errors"
	"github.com/teneola/staffx/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	UserExists(id uint) (bool, error)
	GetAllUsers() ([]models.User, error)
	GetAllUsersExcept(id uint) ([]models.User, error)
}

type userRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *GormDB) UserRepository {
	return &userRepo{db.DB}
}

func (u *userRepo) CreateUser(user *models.User) (*models.User, error) {
	if err := u.DB.Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "could not create user")
	}
	return user, nil
}

func (u *userRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := u.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *userRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := u.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *userRepo) UserExists(id uint) (bool, error) {
	var count int64
	if err := u.DB.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "could not check user existence")
	}
	return count > 0, nil
}

func (u *userRepo) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := u.DB.Order("name asc").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "could not list users")
	}
	return users, nil
}

func (u *userRepo) GetAllUsersExcept(id uint) ([]models.User, error) {
	var users []models.User
	if err := u.DB.Where("id <> ?", id).Order("name asc").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "could not list users")
	}
	return users, nil
}
