package accounts

import (
	"context"

	"catalog-admin/internal/apperr"
	"catalog-admin/internal/domain/users"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store interface {
	List(ctx context.Context) ([]users.User, error)
	Get(ctx context.Context, id string) (*users.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	// Upsert inserts u, or refreshes the profile and last login of the row with the same uid.
	Upsert(ctx context.Context, u *users.User) error
}

type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) List(ctx context.Context) ([]users.User, error) {
	var out []users.User
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return out, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*users.User, error) {
	var u users.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("User not found")
		}
		return nil, errors.Wrapf(err, "failed to load user %s", id)
	}
	return &u, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&users.User{}, "id = ?", id)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "failed to delete user %s", id)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) Upsert(ctx context.Context, u *users.User) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "display_name", "photo_url", "last_login_at"}),
	}).Create(u).Error
	return errors.Wrap(err, "failed to save user")
}
