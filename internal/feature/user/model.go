package user

import "mailsort-api/internal/domain"

// UserModel password 列存 bcrypt 哈希
type UserModel struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"size:128;not null"`
	Email    string `gorm:"size:255;not null"`
	Password string `gorm:"size:100;not null"`
}

func (UserModel) TableName() string { return "users" }

func FromDomain(u *domain.User) *UserModel {
	return &UserModel{ID: u.ID, Name: u.Name, Email: u.Email, Password: u.PasswordHash}
}

func (m *UserModel) ToDomain() domain.User {
	return domain.User{ID: m.ID, Name: m.Name, Email: m.Email, PasswordHash: m.Password}
}
