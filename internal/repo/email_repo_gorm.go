package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mailsort-api/internal/domain"
	"mailsort-api/internal/feature/email"
)

type EmailRepo struct{ db *gorm.DB }

func NewEmailRepo(db *gorm.DB) *EmailRepo { return &EmailRepo{db: db} }

func (r *EmailRepo) Create(ctx context.Context, e *domain.Email) error {
	m := email.FromDomain(e)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create email: %w", err)
	}
	e.ID = m.ID
	e.CreatedAt = m.CreatedAt
	return nil
}

func (r *EmailRepo) FindByID(ctx context.Context, id uint) (*domain.Email, error) {
	var m email.EmailModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find email %d: %w", id, err)
	}
	e := m.ToDomain()
	return &e, nil
}

func (r *EmailRepo) List(ctx context.Context) ([]domain.EmailSummary, error) {
	var ms []email.EmailModel
	err := r.db.WithContext(ctx).
		Select("id", "user_id", "subject", "category", "reply").
		Order("id").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	out := make([]domain.EmailSummary, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain().Summary())
	}
	return out, nil
}

func (r *EmailRepo) Update(ctx context.Context, id uint, cols domain.Columns) error {
	return updateByID(ctx, r.db, &email.EmailModel{}, id, cols)
}

func (r *EmailRepo) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &email.EmailModel{}, id)
}
