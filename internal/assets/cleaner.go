// Package assets deletes stored blobs given the download URLs records point at.
package assets

import (
	"context"
	"sync/atomic"

	"catalog-admin/internal/domain/media"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type BlobStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Cleaner is best-effort: failures are logged and left out of the count.
type Cleaner struct {
	store   BlobStore
	locator media.Locator
	log     logrus.FieldLogger
	limit   int
}

func NewCleaner(store BlobStore, locator media.Locator, log logrus.FieldLogger, limit int) *Cleaner {
	return &Cleaner{
		store:   store,
		locator: locator,
		log:     log,
		limit:   limit,
	}
}

// DeleteURLs removes every blob the urls resolve to and returns how many were deleted.
// Empty and duplicate urls are skipped.
func (c *Cleaner) DeleteURLs(ctx context.Context, urls ...string) int {
	targets := uniqueNonEmpty(urls)
	if len(targets) == 0 {
		return 0
	}

	var deleted atomic.Int64
	var g errgroup.Group
	if c.limit > 0 {
		g.SetLimit(c.limit)
	}
	for _, u := range targets {
		g.Go(func() error {
			if c.deleteURL(ctx, u) {
				deleted.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(deleted.Load())
}

func (c *Cleaner) deleteURL(ctx context.Context, rawURL string) bool {
	log := c.log.WithField("url", rawURL)

	key, ok := c.locator.ObjectKey(rawURL)
	if !ok {
		log.Warn("skipping asset with unresolvable url")
		return false
	}
	log = log.WithField("key", key)

	exists, err := c.store.Exists(ctx, key)
	if err != nil {
		log.WithError(err).Error("failed to check asset")
		return false
	}
	if !exists {
		log.Debug("asset already gone")
		return false
	}

	if err := c.store.Delete(ctx, key); err != nil {
		log.WithError(err).Error("failed to delete asset")
		return false
	}
	log.Info("asset deleted")
	return true
}

func uniqueNonEmpty(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
