package content

import (
	"context"

	"catalog-admin/internal/apperr"
	"catalog-admin/internal/domain/catalog"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormCategoryStore struct {
	db *gorm.DB
}

var _ CategoryStore = (*GormCategoryStore)(nil)

func NewCategoryStore(db *gorm.DB) *GormCategoryStore {
	return &GormCategoryStore{db: db}
}

func (s *GormCategoryStore) List(ctx context.Context, page Page) ([]catalog.Category, error) {
	var out []catalog.Category
	err := s.db.WithContext(ctx).
		Order("created_at desc").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	return out, nil
}

func (s *GormCategoryStore) Get(ctx context.Context, id string) (*catalog.Category, error) {
	var c catalog.Category
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("Category not found")
		}
		return nil, errors.Wrapf(err, "failed to load category %s", id)
	}
	return &c, nil
}

func (s *GormCategoryStore) Create(ctx context.Context, c *catalog.Category) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(c).Error, "failed to create category")
}

func (s *GormCategoryStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&catalog.Category{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "failed to update category %s", id)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("Category not found")
	}
	return nil
}

func (s *GormCategoryStore) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&catalog.Category{}, "id = ?", id)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "failed to delete category %s", id)
	}
	return res.RowsAffected > 0, nil
}

type GormVideoStore struct {
	db *gorm.DB
}

var _ VideoStore = (*GormVideoStore)(nil)

func NewVideoStore(db *gorm.DB) *GormVideoStore {
	return &GormVideoStore{db: db}
}

func (s *GormVideoStore) List(ctx context.Context, q VideoQuery) ([]catalog.Video, error) {
	tx := s.db.WithContext(ctx).Model(&catalog.Video{})
	if q.CategoryID != "" {
		tx = tx.Where("category = ?", q.CategoryID)
	}

	var out []catalog.Video
	err := tx.Order("created_at desc").
		Limit(q.Page.Limit).
		Offset(q.Page.Offset).
		Find(&out).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list videos")
	}
	return out, nil
}

func (s *GormVideoStore) Get(ctx context.Context, id string) (*catalog.Video, error) {
	var v catalog.Video
	if err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("Video not found")
		}
		return nil, errors.Wrapf(err, "failed to load video %s", id)
	}
	return &v, nil
}

func (s *GormVideoStore) Create(ctx context.Context, v *catalog.Video) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(v).Error, "failed to create video")
}

func (s *GormVideoStore) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&catalog.Video{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "failed to update video %s", id)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("Video not found")
	}
	return nil
}

func (s *GormVideoStore) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&catalog.Video{}, "id = ?", id)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "failed to delete video %s", id)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormVideoStore) ListByCategory(ctx context.Context, categoryID string) ([]catalog.Video, error) {
	var out []catalog.Video
	if err := s.db.WithContext(ctx).Where("category = ?", categoryID).Find(&out).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to list videos of category %s", categoryID)
	}
	return out, nil
}

func (s *GormVideoStore) CountReferences(ctx context.Context, url string, exclude []string) (int64, error) {
	tx := s.db.WithContext(ctx).Model(&catalog.Video{}).Where("(thumbnail = ? OR video = ?)", url, url)
	if len(exclude) > 0 {
		tx = tx.Where("id NOT IN ?", exclude)
	}

	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count asset references")
	}
	return n, nil
}
