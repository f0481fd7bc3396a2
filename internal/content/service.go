// Package content owns categories and videos, including the cascading delete
// and the cleanup of the assets those records point at.
package content

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"catalog-admin/internal/apperr"
	"catalog-admin/internal/domain/catalog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type AssetCleaner interface {
	DeleteURLs(ctx context.Context, urls ...string) int
}

type Options struct {
	// Fanout bounds concurrent video cascades during a category delete; 0 means unbounded.
	Fanout int
	// CleanupTimeout bounds the detached stale-asset cleanup after an update.
	CleanupTimeout time.Duration
}

type Service struct {
	categories CategoryStore
	videos     VideoStore
	assets     AssetCleaner
	log        logrus.FieldLogger
	opts       Options

	now   func() time.Time
	newID func() string

	background sync.WaitGroup
}

func NewService(categories CategoryStore, videos VideoStore, assets AssetCleaner, log logrus.FieldLogger, opts Options) *Service {
	return &Service{
		categories: categories,
		videos:     videos,
		assets:     assets,
		log:        log,
		opts:       opts,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Wait blocks until every detached cleanup started so far has finished.
func (s *Service) Wait() {
	s.background.Wait()
}

type CategoryInput struct {
	Title       string
	Description string
	IsActive    *bool
}

type CategoryPatch struct {
	Title       *string
	Description *string
	IsActive    *bool
}

type VideoInput struct {
	Title        string
	ThumbnailURL string
	VideoURL     string
	CategoryID   string
	Duration     string
	IsActive     *bool
}

// VideoPatch carries the fields to change. OldThumbnailURL and OldVideoURL are the
// asset URLs the client replaced, cleaned up once the update has committed.
type VideoPatch struct {
	Title        *string
	ThumbnailURL *string
	VideoURL     *string
	CategoryID   *string
	Duration     *string
	IsActive     *bool

	OldThumbnailURL string
	OldVideoURL     string
}

/* ---------------- categories ---------------- */

func (s *Service) ListCategories(ctx context.Context, page Page) ([]catalog.Category, error) {
	out, err := s.categories.List(ctx, page)
	if err != nil {
		return nil, backend(err, "Failed to fetch categories")
	}
	if len(out) == 0 {
		return nil, apperr.NotFoundf("Categories not found")
	}
	return out, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	c, err := s.categories.Get(ctx, id)
	if err != nil {
		return nil, backend(err, "Failed to fetch category")
	}
	return c, nil
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput, createdBy string) (*catalog.Category, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.InvalidField("title", "Title is required")
	}

	c := &catalog.Category{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		IsActive:    boolOr(in.IsActive, true),
		CreatedBy:   createdBy,
		CreatedAt:   s.now(),
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, backend(err, "Failed to create category")
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, p CategoryPatch) (*catalog.Category, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, apperr.InvalidField("title", "Title is required")
	}
	if _, err := s.categories.Get(ctx, id); err != nil {
		return nil, backend(err, "Failed to update category")
	}

	fields := map[string]interface{}{"updated_at": s.now()}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.IsActive != nil {
		fields["is_active"] = *p.IsActive
	}

	if err := s.categories.Update(ctx, id, fields); err != nil {
		return nil, backend(err, "Failed to update category")
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes the category and every video that references it, and
// returns how many videos went with it. Asset cleanup failures are absorbed; a
// failed video record delete keeps the category and fails the call.
func (s *Service) DeleteCategory(ctx context.Context, id string) (int, error) {
	log := s.log.WithField("category_id", id)

	if _, err := s.categories.Get(ctx, id); err != nil {
		return 0, backend(err, "Failed to delete category")
	}

	videos, err := s.videos.ListByCategory(ctx, id)
	if err != nil {
		return 0, backend(err, "Failed to fetch category videos")
	}

	cascade := make([]string, len(videos))
	for i, v := range videos {
		cascade[i] = v.ID
	}

	var failed atomic.Int64
	var g errgroup.Group
	if s.opts.Fanout > 0 {
		g.SetLimit(s.opts.Fanout)
	}
	for _, v := range videos {
		g.Go(func() error {
			if err := s.removeVideo(ctx, v, cascade); err != nil {
				failed.Add(1)
				log.WithError(err).WithField("video_id", v.ID).Error("failed to delete video during category cascade")
			}
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		return 0, apperr.Wrap(
			errors.Errorf("%d of %d video record deletes failed", n, len(videos)),
			"Failed to delete associated videos",
		)
	}

	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return 0, backend(err, "Failed to delete category")
	}
	if !deleted {
		log.Debug("category already deleted")
	}
	return len(videos), nil
}

/* ---------------- videos ---------------- */

func (s *Service) ListVideos(ctx context.Context, q VideoQuery) ([]catalog.Video, error) {
	out, err := s.videos.List(ctx, q)
	if err != nil {
		return nil, backend(err, "Failed to fetch videos")
	}
	if len(out) == 0 {
		return nil, apperr.NotFoundf("Videos not found")
	}
	return out, nil
}

func (s *Service) GetVideo(ctx context.Context, id string) (*catalog.Video, error) {
	v, err := s.videos.Get(ctx, id)
	if err != nil {
		return nil, backend(err, "Failed to fetch video")
	}
	return v, nil
}

func (s *Service) CreateVideo(ctx context.Context, in VideoInput, createdBy string) (*catalog.Video, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.InvalidField("title", "Title is required")
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	v := &catalog.Video{
		ID:           s.newID(),
		Title:        in.Title,
		ThumbnailURL: in.ThumbnailURL,
		VideoURL:     in.VideoURL,
		CategoryID:   in.CategoryID,
		Duration:     in.Duration,
		IsActive:     boolOr(in.IsActive, true),
		CreatedBy:    createdBy,
		CreatedAt:    s.now(),
	}
	if err := s.videos.Create(ctx, v); err != nil {
		return nil, backend(err, "Failed to create video")
	}
	return v, nil
}

// UpdateVideo applies p and, once the write has committed, schedules the
// replaced asset URLs for cleanup without waiting for it.
func (s *Service) UpdateVideo(ctx context.Context, id string, p VideoPatch) (*catalog.Video, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, apperr.InvalidField("title", "Title is required")
	}

	current, err := s.videos.Get(ctx, id)
	if err != nil {
		return nil, backend(err, "Failed to update video")
	}
	if p.CategoryID != nil && *p.CategoryID != current.CategoryID {
		if err := s.requireCategory(ctx, *p.CategoryID); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{"updated_at": s.now()}
	setString(fields, "title", p.Title)
	setString(fields, "thumbnail", p.ThumbnailURL)
	setString(fields, "video", p.VideoURL)
	setString(fields, "category", p.CategoryID)
	setString(fields, "duration", p.Duration)
	if p.IsActive != nil {
		fields["is_active"] = *p.IsActive
	}

	if err := s.videos.Update(ctx, id, fields); err != nil {
		return nil, backend(err, "Failed to update video")
	}

	// The update is committed; replaced assets are cleaned even if the re-read fails.
	next := *current
	stale := []string{p.OldThumbnailURL, p.OldVideoURL}
	if p.ThumbnailURL != nil {
		stale = append(stale, current.ThumbnailURL)
		next.ThumbnailURL = *p.ThumbnailURL
	}
	if p.VideoURL != nil {
		stale = append(stale, current.VideoURL)
		next.VideoURL = *p.VideoURL
	}
	if urls := without(stale, next.AssetURLs()); len(urls) > 0 {
		s.cleanupDetached(id, urls)
	}

	return s.GetVideo(ctx, id)
}

// DeleteVideo cleans the video's assets and then removes the record. A record
// that vanished in between counts as deleted.
func (s *Service) DeleteVideo(ctx context.Context, id string) error {
	v, err := s.videos.Get(ctx, id)
	if err != nil {
		return backend(err, "Failed to delete video")
	}
	return backend(s.removeVideo(ctx, *v, []string{v.ID}), "Failed to delete video")
}

func (s *Service) removeVideo(ctx context.Context, v catalog.Video, exclude []string) error {
	log := s.log.WithField("video_id", v.ID)

	urls := s.unreferenced(ctx, v.AssetURLs(), exclude)
	if len(urls) > 0 {
		n := s.assets.DeleteURLs(ctx, urls...)
		log.WithField("deleted", n).Debug("video assets cleaned")
	}

	deleted, err := s.videos.Delete(ctx, v.ID)
	if err != nil {
		return err
	}
	if !deleted {
		log.Debug("video already deleted")
	}
	return nil
}

func (s *Service) requireCategory(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.InvalidField("category", "Category is required")
	}
	if _, err := s.categories.Get(ctx, id); err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return apperr.InvalidField("category", "Category does not exist")
		}
		return backend(err, "Failed to fetch category")
	}
	return nil
}

func (s *Service) cleanupDetached(videoID string, urls []string) {
	s.background.Add(1)
	go func() {
		defer s.background.Done()

		ctx := context.Background()
		if s.opts.CleanupTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.opts.CleanupTimeout)
			defer cancel()
		}

		log := s.log.WithField("video_id", videoID)
		targets := s.unreferenced(ctx, urls, nil)
		if len(targets) == 0 {
			return
		}
		n := s.assets.DeleteURLs(ctx, targets...)
		if n < len(targets) {
			log.WithFields(logrus.Fields{"deleted": n, "stale": len(targets)}).Warn("stale asset cleanup incomplete")
			return
		}
		log.WithField("deleted", n).Info("stale assets cleaned")
	}()
}

// unreferenced drops empty urls and those another video still points at. A url
// whose reference check fails is kept in storage.
func (s *Service) unreferenced(ctx context.Context, urls []string, exclude []string) []string {
	var out []string
	for _, u := range without(urls, nil) {
		n, err := s.videos.CountReferences(ctx, u, exclude)
		if err != nil {
			s.log.WithError(err).WithField("url", u).Error("failed to check asset references, keeping asset")
			continue
		}
		if n > 0 {
			s.log.WithField("url", u).Debug("asset still referenced, keeping it")
			continue
		}
		out = append(out, u)
	}
	return out
}

// without returns the distinct non-empty urls that are not in keep.
func without(urls, keep []string) []string {
	skip := make(map[string]struct{}, len(keep)+len(urls))
	for _, k := range keep {
		skip[k] = struct{}{}
	}
	var out []string
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := skip[u]; ok {
			continue
		}
		skip[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

func setString(fields map[string]interface{}, column string, v *string) {
	if v != nil {
		fields[column] = *v
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// backend passes typed errors through and turns anything else into a Backend error.
func backend(err error, message string) error {
	if err == nil {
		return nil
	}
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	return apperr.Wrap(err, message)
}
