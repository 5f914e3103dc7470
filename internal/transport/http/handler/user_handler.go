package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mailsort-api/internal/domain"
	httpez "mailsort-api/internal/transport/http/ez"
	resp "mailsort-api/internal/transport/http/response"
)

type UserService interface {
	Create(ctx context.Context, in domain.UserCreate) (uint, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	Update(ctx context.Context, id uint, p domain.UserPatch) error
	Delete(ctx context.Context, id uint) error
}

type UserHandler struct{ svc UserService }

func NewUserHandler(svc UserService) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Priority() int { return 10 }

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	e := httpez.New(g)

	httpez.RegisterAction(e, httpez.Action[domain.UserCreate, resp.Message]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindStrictJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *domain.UserCreate) (resp.Message, error) {
			id, err := h.svc.Create(c.Request.Context(), *in)
			if err != nil {
				return resp.Message{}, err
			}
			return resp.Created("Usuário criado", id), nil
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return h.svc.List(c.Request.Context())
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			id, err := httpez.ParamID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Get(c.Request.Context(), id)
		},
	})

	// 先确认存在再解析 body：不存在的 id 无论 body 如何都是 404
	httpez.RegisterAction(e, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			id, err := httpez.ParamID(c)
			if err != nil {
				return resp.Message{}, err
			}
			if _, err := h.svc.Get(c.Request.Context(), id); err != nil {
				return resp.Message{}, err
			}
			var in domain.UserPatch
			if err := httpez.BindBody(c, &in); err != nil {
				return resp.Message{}, err
			}
			if err := h.svc.Update(c.Request.Context(), id, in); err != nil {
				return resp.Message{}, err
			}
			return resp.Msg("Usuário atualizado"), nil
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			id, err := httpez.ParamID(c)
			if err != nil {
				return resp.Message{}, err
			}
			if err := h.svc.Delete(c.Request.Context(), id); err != nil {
				return resp.Message{}, err
			}
			return resp.Msg("Usuário deletado"), nil
		},
	})
}
