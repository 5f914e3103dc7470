package email

import (
	"time"

	"mailsort-api/internal/domain"
)

// EmailModel user_id 只建索引不建外键：删用户不级联，也不被外键拦住
type EmailModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    *uint     `gorm:"index"`
	Subject   *string   `gorm:"size:255"`
	Content   *string   `gorm:"type:text"`
	Category  *string   `gorm:"size:16"`
	Reply     *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (EmailModel) TableName() string { return "emails" }

func FromDomain(e *domain.Email) *EmailModel {
	m := &EmailModel{
		ID:        e.ID,
		UserID:    e.UserID,
		Subject:   e.Subject,
		Content:   e.Content,
		Reply:     e.Reply,
		CreatedAt: e.CreatedAt,
	}
	if e.Category != nil {
		c := string(*e.Category)
		m.Category = &c
	}
	return m
}

func (m *EmailModel) ToDomain() domain.Email {
	e := domain.Email{
		ID:        m.ID,
		UserID:    m.UserID,
		Subject:   m.Subject,
		Content:   m.Content,
		Reply:     m.Reply,
		CreatedAt: m.CreatedAt,
	}
	if m.Category != nil {
		c := domain.Category(*m.Category)
		e.Category = &c
	}
	return e
}
