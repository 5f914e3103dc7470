package domain

import (
	"context"
	"time"
)

type Category string

const (
	CategoryProductive   Category = "PRODUTIVO"
	CategoryUnproductive Category = "IMPRODUTIVO"
)

func (c Category) Valid() bool {
	return c == CategoryProductive || c == CategoryUnproductive
}

type Email struct {
	ID        uint      `json:"id"`
	UserID    *uint     `json:"user_id"`
	Subject   *string   `json:"subject"`
	Content   *string   `json:"content"`
	Category  *Category `json:"category"`
	Reply     *string   `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailSummary 列表视图，不含 content/created_at
type EmailSummary struct {
	ID       uint      `json:"id"`
	UserID   *uint     `json:"user_id"`
	Subject  *string   `json:"subject"`
	Category *Category `json:"category"`
	Reply    *string   `json:"reply"`
}

func (e Email) Summary() EmailSummary {
	return EmailSummary{
		ID:       e.ID,
		UserID:   e.UserID,
		Subject:  e.Subject,
		Category: e.Category,
		Reply:    e.Reply,
	}
}

// EmailCreate 可写字段白名单；id/created_at 由存储生成
type EmailCreate struct {
	UserID   *uint     `json:"user_id"`
	Subject  *string   `json:"subject"`
	Content  *string   `json:"content"`
	Category *Category `json:"category"`
	Reply    *string   `json:"reply"`
}

// EmailPatch 显式 null 清空对应列
type EmailPatch struct {
	Subject  Optional[string]   `json:"subject"`
	Content  Optional[string]   `json:"content"`
	Category Optional[Category] `json:"category"`
	Reply    Optional[string]   `json:"reply"`
}

func (p EmailPatch) Columns() Columns {
	cols := Columns{}
	setOptional(cols, "subject", p.Subject)
	setOptional(cols, "content", p.Content)
	if p.Category.Set {
		if p.Category.Value == nil {
			cols["category"] = nil
		} else {
			cols["category"] = string(*p.Category.Value)
		}
	}
	setOptional(cols, "reply", p.Reply)
	return cols
}

type EmailRepository interface {
	Create(ctx context.Context, e *Email) error
	FindByID(ctx context.Context, id uint) (*Email, error)
	List(ctx context.Context) ([]EmailSummary, error)
	Update(ctx context.Context, id uint, cols Columns) error
	Delete(ctx context.Context, id uint) error
}
