package service

import (
	"context"

	"portal/internal/application/entity"
	"portal/internal/application/repo"

	"go.uber.org/zap"
)

type ContactService interface {
	Create(ctx context.Context, c entity.Contact) (entity.Contact, error)
	List(ctx context.Context, f entity.ContactFilter) ([]entity.Contact, error)
	Get(ctx context.Context, id string) (entity.Contact, error)
	Patch(ctx context.Context, id string, p entity.ContactPatch) (entity.Contact, error)
	Delete(ctx context.Context, id string) error
}

type Contacts struct {
	repo   repo.ContactRepo
	logger *zap.SugaredLogger
}

func NewContacts(repo repo.ContactRepo, logger *zap.SugaredLogger) *Contacts {
	return &Contacts{repo: repo, logger: logger}
}

func (s *Contacts) Create(ctx context.Context, c entity.Contact) (entity.Contact, error) {
	s.logger.Debugf("[contact: %s %s] Create started", c.Firstname, c.Lastname)

	c.ApplyDefaults()
	if err := s.repo.CreateContact(ctx, &c); err != nil {
		return c, err
	}
	return c, nil
}

func (s *Contacts) List(ctx context.Context, f entity.ContactFilter) ([]entity.Contact, error) {
	return s.repo.ListContacts(ctx, f)
}

func (s *Contacts) Get(ctx context.Context, id string) (entity.Contact, error) {
	return s.repo.GetContact(ctx, id)
}

func (s *Contacts) Patch(ctx context.Context, id string, p entity.ContactPatch) (entity.Contact, error) {
	s.logger.Debugf("[contact: %s] Patch started", id)
	return s.repo.PatchContact(ctx, id, p)
}

func (s *Contacts) Delete(ctx context.Context, id string) error {
	s.logger.Debugf("[contact: %s] Delete started", id)
	return s.repo.DeleteContact(ctx, id)
}
