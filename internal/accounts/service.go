// Package accounts manages the dashboard's user records and the identity
// accounts behind them.
package accounts

import (
	"context"
	"time"

	"catalog-admin/internal/apperr"
	"catalog-admin/internal/domain/users"
	"catalog-admin/internal/infra/identity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Service struct {
	store    Store
	identity identity.AccountDeleter
	log      logrus.FieldLogger

	now   func() time.Time
	newID func() string
}

// NewService accepts a nil deleter, in which case only the record is removed.
func NewService(store Store, deleter identity.AccountDeleter, log logrus.FieldLogger) *Service {
	return &Service{
		store:    store,
		identity: deleter,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Service) List(ctx context.Context) ([]users.User, error) {
	out, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch users")
	}
	if len(out) == 0 {
		return nil, apperr.NotFoundf("Users not found")
	}
	return out, nil
}

// Delete removes the identity account first, best-effort, then the record.
func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.store.Get(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return err
		}
		return apperr.Wrap(err, "Failed to delete user")
	}

	log := s.log.WithFields(logrus.Fields{"user_id": u.ID, "uid": u.UID})
	if u.UID != "" && s.identity != nil {
		if err := s.identity.DeleteAccount(ctx, u.UID); err != nil {
			log.WithError(err).Warn("failed to delete identity account")
		}
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return apperr.Wrap(err, "Failed to delete user")
	}
	if !deleted {
		log.Debug("user record already deleted")
	}
	log.Info("user deleted")
	return nil
}

// RecordLogin creates or refreshes the record of a user who just signed in.
func (s *Service) RecordLogin(ctx context.Context, who identity.Identity) (*users.User, error) {
	now := s.now()
	u := &users.User{
		ID:          s.newID(),
		UID:         who.UID,
		Email:       who.Email,
		DisplayName: who.Name,
		PhotoURL:    who.Picture,
		CreatedAt:   now,
		LastLoginAt: &now,
	}
	if err := s.store.Upsert(ctx, u); err != nil {
		return nil, apperr.Wrap(err, "Failed to record sign-in")
	}
	return u, nil
}
