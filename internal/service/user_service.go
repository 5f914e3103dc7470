package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mailsort-api/internal/core/cache"
	"mailsort-api/internal/domain"
	"mailsort-api/pkg/utils"
)

const usersListKey = "mailsort:users:list"

type UserService struct {
	repo  domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewUserService c 可为 nil（不缓存）
func NewUserService(repo domain.UserRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{repo: repo, cache: c, ttl: ttl, log: l}
}

func (s *UserService) Create(ctx context.Context, in domain.UserCreate) (uint, error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return 0, domain.Invalid("name", "required")
	case strings.TrimSpace(in.Email) == "":
		return 0, domain.Invalid("email", "required")
	case in.Password == "":
		return 0, domain.Invalid("password", "required")
	}
	hash, err := utils.HashPassword(in.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return 0, domain.Invalid("password", "longer than 72 bytes")
	}
	if err != nil {
		return 0, err
	}

	u := &domain.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	s.log.Debug("user created", zap.Uint("id", u.ID))
	return u.ID, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return cache.GetOrLoadList(s.cache, ctx, usersListKey, s.ttl, s.repo.List)
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id uint, p domain.UserPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, p.Columns()); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete 不级联删除该用户的 emails
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.Debug("user deleted", zap.Uint("id", id))
	return nil
}

func (s *UserService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, usersListKey); err != nil {
		s.log.Warn("invalidate users cache", zap.Error(err))
	}
}
