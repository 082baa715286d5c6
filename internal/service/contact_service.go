package service

import (
	"context"
	"strings"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
)

type ContactInput struct {
	Email   string `json:"email" binding:"required,email,max=255"`
	Message string `json:"message" binding:"required"`
}

// ContactService 处理联系表单消息。
type ContactService interface {
	Create(ctx context.Context, in ContactInput) (*model.ContactMessage, error)
	List(ctx context.Context) ([]model.ContactMessage, error)
	Get(ctx context.Context, id string) (*model.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	contacts repository.ContactRepository
}

func NewContactService(contacts repository.ContactRepository) ContactService {
	return &contactService{contacts: contacts}
}

const contactScope = "ContactService"

// Create 保存消息前去除其中的全部 HTML。
func (s *contactService) Create(ctx context.Context, in ContactInput) (*model.ContactMessage, error) {
	msg := strings.TrimSpace(plainPolicy.Sanitize(in.Message))
	if msg == "" {
		return nil, BadRequest("消息内容不能为空")
	}
	m := &model.ContactMessage{Email: strings.TrimSpace(in.Email), Message: msg}
	if err := s.contacts.Create(ctx, m); err != nil {
		return nil, storeErr(contactScope, err, "", "")
	}
	return m, nil
}

func (s *contactService) List(ctx context.Context) ([]model.ContactMessage, error) {
	msgs, err := s.contacts.FindAll(ctx)
	return msgs, storeErr(contactScope, err, "", "")
}

func (s *contactService) Get(ctx context.Context, id string) (*model.ContactMessage, error) {
	m, err := s.contacts.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(contactScope, err, "消息不存在", "")
	}
	return m, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	return storeErr(contactScope, s.contacts.Delete(ctx, id), "消息不存在", "")
}
