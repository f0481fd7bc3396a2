package content

import (
	"context"

	"catalog-admin/internal/domain/catalog"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Page struct {
	Limit  int
	Offset int
}

// NewPage clamps limit to [1, MaxLimit] and treats page as 1-based.
func NewPage(limit, page int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page < 1 {
		page = 1
	}
	return Page{Limit: limit, Offset: (page - 1) * limit}
}

type VideoQuery struct {
	CategoryID string
	Page       Page
}

// CategoryStore returns apperr NotFound from Get and Update when the id is unknown.
type CategoryStore interface {
	List(ctx context.Context, page Page) ([]catalog.Category, error)
	Get(ctx context.Context, id string) (*catalog.Category, error)
	Create(ctx context.Context, c *catalog.Category) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	// Delete reports false when no row matched.
	Delete(ctx context.Context, id string) (bool, error)
}

type VideoStore interface {
	List(ctx context.Context, q VideoQuery) ([]catalog.Video, error)
	Get(ctx context.Context, id string) (*catalog.Video, error)
	Create(ctx context.Context, v *catalog.Video) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) (bool, error)
	ListByCategory(ctx context.Context, categoryID string) ([]catalog.Video, error)
	// CountReferences counts videos, other than the excluded ids, whose thumbnail or video is url.
	CountReferences(ctx context.Context, url string, exclude []string) (int64, error)
}
