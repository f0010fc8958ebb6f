package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/wardbook/records/store"
	"github.com/wardbook/records/users"
)

type service struct {
	repo   users.Repository
	logger *zap.SugaredLogger
}

var _ users.Service = &service{}

func NewService(repo users.Repository, logger *zap.SugaredLogger) (users.Service, error) {
	return &service{
		repo:   repo,
		logger: logger,
	}, nil
}

func (s *service) Get(ctx context.Context, id string) (*users.User, error) {
	if id == "" {
		return nil, users.ErrMissingUserId
	}
	return s.repo.Get(ctx, id)
}

func (s *service) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, users.ErrMissingUsername
	}
	return s.repo.GetByUsername(ctx, username)
}

func (s *service) Create(ctx context.Context, user *users.User) (*users.User, error) {
	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" {
		return nil, users.ErrMissingUsername
	}
	if user.Status == "" {
		user.Status = users.StatusPending
	} else if !users.IsValidStatus(user.Status) {
		return nil, users.ErrInvalidStatus
	}

	s.logger.Infow("creating user", "username", user.Username, "status", user.Status)
	return s.repo.Create(ctx, user)
}

func (s *service) List(ctx context.Context, filter *users.Filter, pagination store.Pagination) (*users.ListResult, error) {
	if filter != nil && filter.Status != nil {
		status := *filter.Status
		if status != "" && status != users.StatusAll {
			normalized, err := users.NormalizeStatus(status)
			if err != nil {
				return nil, err
			}
			filter = &users.Filter{Status: &normalized}
		}
	}
	return s.repo.List(ctx, filter, pagination)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status string) (*users.User, error) {
	if id == "" {
		return nil, users.ErrMissingUserId
	}
	normalized, err := users.NormalizeStatus(status)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("updating user status", "userId", id, "status", normalized)
	return s.repo.UpdateStatus(ctx, id, normalized)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return users.ErrMissingUserId
	}

	s.logger.Infow("deleting user", "userId", id)
	return s.repo.Delete(ctx, id)
}
