package domain

import "context"

type User struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type UserCreate struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserPatch 仅 name/email 可改，password 不在此列
type UserPatch struct {
	Name  Optional[string] `json:"name"`
	Email Optional[string] `json:"email"`
}

// Validate name/email 列 NOT NULL，显式 null 拒绝
func (p UserPatch) Validate() error {
	if p.Name.IsNull() {
		return Invalid("name", "must not be null")
	}
	if p.Email.IsNull() {
		return Invalid("email", "must not be null")
	}
	return nil
}

func (p UserPatch) Columns() Columns {
	cols := Columns{}
	setOptional(cols, "name", p.Name)
	setOptional(cols, "email", p.Email)
	return cols
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uint, cols Columns) error
	Delete(ctx context.Context, id uint) error
}
