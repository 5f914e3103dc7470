package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"mailsort-api/internal/core/cache"
	"mailsort-api/internal/domain"
)

const emailsListKey = "mailsort:emails:list"

// UserLookup 校验 user_id 是否存在
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

type EmailService struct {
	repo  domain.EmailRepository
	users UserLookup
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewEmailService(repo domain.EmailRepository, users UserLookup, c *cache.Cache, ttl time.Duration, l *zap.Logger) *EmailService {
	if l == nil {
		l = zap.NewNop()
	}
	return &EmailService{repo: repo, users: users, cache: c, ttl: ttl, log: l}
}

func (s *EmailService) Create(ctx context.Context, in domain.EmailCreate) (uint, error) {
	if err := checkCategory(in.Category); err != nil {
		return 0, err
	}
	if in.UserID != nil {
		if err := s.checkUser(ctx, *in.UserID); err != nil {
			return 0, err
		}
	}

	e := &domain.Email{
		UserID:   in.UserID,
		Subject:  in.Subject,
		Content:  in.Content,
		Category: in.Category,
		Reply:    in.Reply,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	s.log.Debug("email created", zap.Uint("id", e.ID))
	return e.ID, nil
}

func (s *EmailService) List(ctx context.Context) ([]domain.EmailSummary, error) {
	return cache.GetOrLoadList(s.cache, ctx, emailsListKey, s.ttl, s.repo.List)
}

func (s *EmailService) Get(ctx context.Context, id uint) (*domain.Email, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EmailService) Update(ctx context.Context, id uint, p domain.EmailPatch) error {
	if err := checkCategory(p.Category.Value); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, p.Columns()); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *EmailService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *EmailService) checkUser(ctx context.Context, uid uint) error {
	_, err := s.users.FindByID(ctx, uid)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Invalid("user_id", "user does not exist")
	}
	return err
}

func (s *EmailService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, emailsListKey); err != nil {
		s.log.Warn("invalidate emails cache", zap.Error(err))
	}
}

func checkCategory(c *domain.Category) error {
	if c != nil && !c.Valid() {
		return domain.Invalid("category", "must be PRODUTIVO or IMPRODUTIVO")
	}
	return nil
}
