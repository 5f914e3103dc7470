package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mailsort-api/internal/domain"
	"mailsort-api/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	u.ID = m.ID
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	u := m.ToDomain()
	return &u, nil
}

// List 不读 password 列
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var ms []user.UserModel
	if err := r.db.WithContext(ctx).Select("id", "name", "email").Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, id uint, cols domain.Columns) error {
	return updateByID(ctx, r.db, &user.UserModel{}, id, cols)
}

func (r *UserRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &user.UserModel{}, id)
}
