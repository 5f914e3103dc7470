package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mailsort-api/internal/domain"
	httpez "mailsort-api/internal/transport/http/ez"
	resp "mailsort-api/internal/transport/http/response"
)

type EmailService interface {
	Create(ctx context.Context, in domain.EmailCreate) (uint, error)
	List(ctx context.Context) ([]domain.EmailSummary, error)
	Get(ctx context.Context, id uint) (*domain.Email, error)
	Update(ctx context.Context, id uint, p domain.EmailPatch) error
	Delete(ctx context.Context, id uint) error
}

type EmailHandler struct{ svc EmailService }

func NewEmailHandler(svc EmailService) *EmailHandler { return &EmailHandler{svc: svc} }

func (h *EmailHandler) Priority() int { return 20 }

func (h *EmailHandler) MountAPI(g *gin.RouterGroup) {
	e := httpez.New(g)

	// 只接受白名单字段，带 id 等未知字段直接 400
	httpez.RegisterAction(e, httpez.Action[domain.EmailCreate, resp.Message]{
		Method: http.MethodPost,
		Path:   "/emails",
		Binder: httpez.BindStrictJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *domain.EmailCreate) (resp.Message, error) {
			id, err := h.svc.Create(c.Request.Context(), *in)
			if err != nil {
				return resp.Message{}, err
			}
			return resp.Created("Email cadastrado", id), nil
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, []domain.EmailSummary]{
		Method: http.MethodGet,
		Path:   "/emails",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.EmailSummary, error) {
			return h.svc.List(c.Request.Context())
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, *domain.Email]{
		Method: http.MethodGet,
		Path:   "/emails/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Email, error) {
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
		Path:   "/emails/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			id, err := httpez.ParamID(c)
			if err != nil {
				return resp.Message{}, err
			}
			if _, err := h.svc.Get(c.Request.Context(), id); err != nil {
				return resp.Message{}, err
			}
			var in domain.EmailPatch
			if err := httpez.BindBody(c, &in); err != nil {
				return resp.Message{}, err
			}
			if err := h.svc.Update(c.Request.Context(), id, in); err != nil {
				return resp.Message{}, err
			}
			return resp.Msg("Email atualizado"), nil
		},
	})

	httpez.RegisterAction(e, httpez.Action[struct{}, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/emails/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (resp.Message, error) {
			id, err := httpez.ParamID(c)
			if err != nil {
				return resp.Message{}, err
			}
			if err := h.svc.Delete(c.Request.Context(), id); err != nil {
				return resp.Message{}, err
			}
			return resp.Msg("Email deletado"), nil
		},
	})
}
