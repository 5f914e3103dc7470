package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailsort-api/internal/core/cache"
	"mailsort-api/internal/core/database"
	"mailsort-api/internal/domain"
	"mailsort-api/internal/feature/email"
	"mailsort-api/internal/feature/user"
	"mailsort-api/internal/repo"
	"mailsort-api/pkg/utils"
)

type fixture struct {
	users     *UserService
	emails    *EmailService
	userRepo  *repo.UserRepo
	emailRepo *repo.EmailRepo
}

func newFixture(t *testing.T, c *cache.Cache) fixture {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "svc.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db, &user.UserModel{}, &email.EmailModel{}))

	ur := repo.NewUserRepo(db)
	er := repo.NewEmailRepo(db)
	return fixture{
		users:     NewUserService(ur, c, time.Minute, nil),
		emails:    NewEmailService(er, ur, c, time.Minute, nil),
		userRepo:  ur,
		emailRepo: er,
	}
}

func strp(s string) *string                   { return &s }
func catp(c domain.Category) *domain.Category { return &c }
func uintp(v uint) *uint                      { return &v }

func TestUserService_CreateList(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	id, err := f.users.Create(ctx, domain.UserCreate{Name: "Ana", Email: "ana@x.com", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	list, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].Name)
	assert.Equal(t, "ana@x.com", list[0].Email)
	assert.Empty(t, list[0].PasswordHash)

	stored, err := f.userRepo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, "p1", stored.PasswordHash)
	assert.True(t, utils.CheckPassword("p1", stored.PasswordHash))
}

func TestUserService_CreateValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	cases := map[string]domain.UserCreate{
		"name":     {Email: "a@x.com", Password: "p"},
		"email":    {Name: "A", Email: "  ", Password: "p"},
		"password": {Name: "A", Email: "a@x.com"},
	}
	for field, in := range cases {
		_, err := f.users.Create(ctx, in)
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve, field)
		assert.Equal(t, field, ve.Field)
	}

	list, err := f.users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserService_UpdatePartial(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id, err := f.users.Create(ctx, domain.UserCreate{Name: "Ana", Email: "ana@x.com", Password: "p1"})
	require.NoError(t, err)

	require.NoError(t, f.users.Update(ctx, id, domain.UserPatch{}))
	u, err := f.users.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@x.com", u.Email)

	require.NoError(t, f.users.Update(ctx, id, domain.UserPatch{Name: domain.Some("Ana Maria")}))
	u, err = f.users.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Name)
	assert.Equal(t, "ana@x.com", u.Email)

	err = f.users.Update(ctx, id, domain.UserPatch{Email: domain.Null[string]()})
	assert.ErrorIs(t, err, domain.ErrValidation)
	u, err = f.users.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", u.Email)
}

func TestUserService_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	assert.ErrorIs(t, f.users.Update(ctx, 999, domain.UserPatch{Name: domain.Some("x")}), domain.ErrNotFound)
	assert.ErrorIs(t, f.users.Update(ctx, 999, domain.UserPatch{}), domain.ErrNotFound)
	assert.ErrorIs(t, f.users.Delete(ctx, 999), domain.ErrNotFound)
	_, err := f.users.Get(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_DeleteKeepsEmails(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	uid, err := f.users.Create(ctx, domain.UserCreate{Name: "Ana", Email: "ana@x.com", Password: "p1"})
	require.NoError(t, err)
	eid, err := f.emails.Create(ctx, domain.EmailCreate{UserID: &uid, Subject: strp("Hi")})
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, uid))

	users, err := f.users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	e, err := f.emails.Get(ctx, eid)
	require.NoError(t, err)
	assert.Equal(t, uid, *e.UserID)
}

func TestEmailService_CreateList(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	uid, err := f.users.Create(ctx, domain.UserCreate{Name: "Ana", Email: "ana@x.com", Password: "p1"})
	require.NoError(t, err)

	id, err := f.emails.Create(ctx, domain.EmailCreate{
		UserID:   &uid,
		Subject:  strp("Hi"),
		Content:  strp("body"),
		Category: catp(domain.CategoryProductive),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)

	list, err := f.emails.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.EmailSummary{{
		ID:       1,
		UserID:   uintp(1),
		Subject:  strp("Hi"),
		Category: catp(domain.CategoryProductive),
	}}, list)

	e, err := f.emails.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "body", *e.Content)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestEmailService_CreateValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.emails.Create(ctx, domain.EmailCreate{Category: catp("URGENTE")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.emails.Create(ctx, domain.EmailCreate{UserID: uintp(77), Subject: strp("x")})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "user_id", ve.Field)

	list, err := f.emails.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	id, err := f.emails.Create(ctx, domain.EmailCreate{})
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestEmailService_UpdateDelete(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id, err := f.emails.Create(ctx, domain.EmailCreate{Subject: strp("Hi"), Content: strp("body")})
	require.NoError(t, err)

	require.NoError(t, f.emails.Update(ctx, id, domain.EmailPatch{Reply: domain.Some("Obrigado")}))
	e, err := f.emails.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hi", *e.Subject)
	assert.Equal(t, "body", *e.Content)
	assert.Equal(t, "Obrigado", *e.Reply)
	assert.Nil(t, e.Category)

	err = f.emails.Update(ctx, id, domain.EmailPatch{Category: domain.Some(domain.Category("x"))})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// 显式 null 清空
	require.NoError(t, f.emails.Update(ctx, id, domain.EmailPatch{Reply: domain.Null[string](), Content: domain.Null[string]()}))
	e, err = f.emails.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, e.Reply)
	assert.Nil(t, e.Content)
	assert.Equal(t, "Hi", *e.Subject)

	assert.ErrorIs(t, f.emails.Update(ctx, 999, domain.EmailPatch{}), domain.ErrNotFound)

	require.NoError(t, f.emails.Delete(ctx, id))
	assert.ErrorIs(t, f.emails.Delete(ctx, id), domain.ErrNotFound)

	list, err := f.emails.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServices_CacheInvalidatedOnWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	f := newFixture(t, c)
	ctx := context.Background()

	list, err := f.users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.True(t, mr.Exists(usersListKey))

	id, err := f.users.Create(ctx, domain.UserCreate{Name: "Ana", Email: "ana@x.com", Password: "p1"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(usersListKey))

	list, err = f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.users.Delete(ctx, id))
	list, err = f.users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.emails.List(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists(emailsListKey))
	_, err = f.emails.Create(ctx, domain.EmailCreate{Subject: strp("x")})
	require.NoError(t, err)
	assert.False(t, mr.Exists(emailsListKey))
}

type failingUsers struct{ err error }

func (f failingUsers) Create(context.Context, *domain.User) error {
	return f.err
}

func (f failingUsers) FindByID(context.Context, uint) (*domain.User, error) {
	return nil, f.err
}

func (f failingUsers) List(context.Context) ([]domain.User, error) {
	return nil, f.err
}

func (f failingUsers) Update(context.Context, uint, domain.Columns) error {
	return f.err
}

func (f failingUsers) Delete(context.Context, uint) error {
	return f.err
}

func TestServices_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	users := NewUserService(failingUsers{err: boom}, nil, time.Minute, nil)
	ctx := context.Background()

	_, err := users.Create(ctx, domain.UserCreate{Name: "A", Email: "a@x.com", Password: "p"})
	assert.ErrorIs(t, err, boom)
	_, err = users.List(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, users.Delete(ctx, 1), boom)

	emails := NewEmailService(nil, failingUsers{err: boom}, nil, time.Minute, nil)
	_, err = emails.Create(ctx, domain.EmailCreate{UserID: uintp(1)})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}
