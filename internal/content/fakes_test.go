package content

import (
	"context"
	"sort"
	"sync"
	"time"

	"catalog-admin/internal/apperr"
	"catalog-admin/internal/domain/catalog"

	"github.com/pkg/errors"
)

type memCategories struct {
	mu     sync.Mutex
	rows   map[string]catalog.Category
	writes int
}

func newMemCategories(cs ...catalog.Category) *memCategories {
	m := &memCategories{rows: map[string]catalog.Category{}}
	for _, c := range cs {
		m.rows[c.ID] = c
	}
	return m
}

func (m *memCategories) List(_ context.Context, page Page) ([]catalog.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Category
	for _, c := range m.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if page.Offset >= len(out) {
		return nil, nil
	}
	out = out[page.Offset:]
	if len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

func (m *memCategories) Get(_ context.Context, id string) (*catalog.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFoundf("Category not found")
	}
	return &c, nil
}

func (m *memCategories) Create(_ context.Context, c *catalog.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.rows[c.ID] = *c
	return nil
}

func (m *memCategories) Update(_ context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	c, ok := m.rows[id]
	if !ok {
		return apperr.NotFoundf("Category not found")
	}
	for k, v := range fields {
		switch k {
		case "title":
			c.Title = v.(string)
		case "description":
			c.Description = v.(string)
		case "is_active":
			c.IsActive = v.(bool)
		case "updated_at":
			t := v.(time.Time)
			c.UpdatedAt = &t
		}
	}
	m.rows[id] = c
	return nil
}

func (m *memCategories) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	_, ok := m.rows[id]
	delete(m.rows, id)
	return ok, nil
}

type memVideos struct {
	mu        sync.Mutex
	rows      map[string]catalog.Video
	writes    int
	deleteErr map[string]error
	countErr  error
	// rereadErr fails Get once the store has been written to.
	rereadErr error
}

func newMemVideos(vs ...catalog.Video) *memVideos {
	m := &memVideos{rows: map[string]catalog.Video{}, deleteErr: map[string]error{}}
	for _, v := range vs {
		m.rows[v.ID] = v
	}
	return m
}

func (m *memVideos) has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok
}

func (m *memVideos) List(_ context.Context, q VideoQuery) ([]catalog.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Video
	for _, v := range m.rows {
		if q.CategoryID == "" || v.CategoryID == q.CategoryID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memVideos) Get(_ context.Context, id string) (*catalog.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rereadErr != nil && m.writes > 0 {
		return nil, m.rereadErr
	}
	v, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFoundf("Video not found")
	}
	return &v, nil
}

func (m *memVideos) Create(_ context.Context, v *catalog.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.rows[v.ID] = *v
	return nil
}

func (m *memVideos) Update(_ context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	v, ok := m.rows[id]
	if !ok {
		return apperr.NotFoundf("Video not found")
	}
	for k, val := range fields {
		switch k {
		case "title":
			v.Title = val.(string)
		case "thumbnail":
			v.ThumbnailURL = val.(string)
		case "video":
			v.VideoURL = val.(string)
		case "category":
			v.CategoryID = val.(string)
		case "duration":
			v.Duration = val.(string)
		case "is_active":
			v.IsActive = val.(bool)
		case "updated_at":
			t := val.(time.Time)
			v.UpdatedAt = &t
		}
	}
	m.rows[id] = v
	return nil
}

func (m *memVideos) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErr[id]; err != nil {
		return false, err
	}
	m.writes++
	_, ok := m.rows[id]
	delete(m.rows, id)
	return ok, nil
}

func (m *memVideos) ListByCategory(_ context.Context, categoryID string) ([]catalog.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Video
	for _, v := range m.rows {
		if v.CategoryID == categoryID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memVideos) CountReferences(_ context.Context, url string, exclude []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	skip := map[string]bool{}
	for _, id := range exclude {
		skip[id] = true
	}
	var n int64
	for _, v := range m.rows {
		if skip[v.ID] {
			continue
		}
		if v.ThumbnailURL == url || v.VideoURL == url {
			n++
		}
	}
	return n, nil
}

// memBlobs is a blob store; when gate is set, Delete blocks until it is closed.
type memBlobs struct {
	mu      sync.Mutex
	objects map[string]bool
	failOn  map[string]error
	gate    chan struct{}
	tried   []string
}

func newMemBlobs(keys ...string) *memBlobs {
	b := &memBlobs{objects: map[string]bool{}, failOn: map[string]error{}}
	for _, k := range keys {
		b.objects[k] = true
	}
	return b
}

func (b *memBlobs) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.objects[key]
}

func (b *memBlobs) attempted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.tried...)
}

func (b *memBlobs) Exists(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.objects[key], nil
}

func (b *memBlobs) Delete(ctx context.Context, key string) error {
	if b.gate != nil {
		select {
		case <-b.gate:
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "delete cancelled")
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tried = append(b.tried, key)
	if err := b.failOn[key]; err != nil {
		return err
	}
	delete(b.objects, key)
	return nil
}
