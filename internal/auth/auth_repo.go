package auth

import (
	"errors"

	"gorm.io/gorm"
)

// AuthRepository defines admin account data access.
type AuthRepository interface {
	GetAdminByEmail(email string) (*Admin, error)
	GetAdminByID(id uint) (*Admin, error)
	CreateAdmin(admin *Admin) error
	CountAdmins() (int64, error)
}

type authRepository struct {
	db *gorm.DB
}

// NewAuthRepository creates a new instance of AuthRepository
func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) GetAdminByEmail(email string) (*Admin, error) {
	var admin Admin
	err := r.db.Where("email = ?", email).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *authRepository) GetAdminByID(id uint) (*Admin, error) {
	var admin Admin
	err := r.db.First(&admin, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *authRepository) CreateAdmin(admin *Admin) error {
	return r.db.Create(admin).Error
}

func (r *authRepository) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&Admin{}).Count(&count).Error
	return count, err
}
