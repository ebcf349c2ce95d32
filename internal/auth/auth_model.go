package auth

import "gorm.io/gorm"

// Admin is a back-office user. There is no self-serve signup; admins are
// seeded from the environment or created by another admin.
type Admin struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"default:'admin'"`
}

// LoginInput represents the login credentials
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the admin profile.
type LoginResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}
