package assets

import (
	"context"
	"sync"
	"testing"

	"catalog-admin/internal/domain/media"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type fakeBlobs struct {
	mu        sync.Mutex
	objects   map[string]bool
	failOn    map[string]error
	existsErr map[string]error
	deleted   []string
}

func newFakeBlobs(keys ...string) *fakeBlobs {
	f := &fakeBlobs{
		objects:   map[string]bool{},
		failOn:    map[string]error{},
		existsErr: map[string]error{},
	}
	for _, k := range keys {
		f.objects[k] = true
	}
	return f
}

func (f *fakeBlobs) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.existsErr[key]; err != nil {
		return false, err
	}
	return f.objects[key], nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[key]; err != nil {
		return err
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

var locator = media.NewLocator("", "demo.appspot.com")

func TestCleaner_DeleteURLs(t *testing.T) {
	blobs := newFakeBlobs("video/thumbnail-1-a.png", "video/video-1-a.mp4")
	log, hook := test.NewNullLogger()
	c := NewCleaner(blobs, locator, log, 2)

	n := c.DeleteURLs(context.Background(),
		locator.DownloadURL("video/thumbnail-1-a.png"),
		locator.DownloadURL("video/video-1-a.mp4"),
		"",
	)

	assert.Equal(t, 2, n)
	assert.Empty(t, blobs.objects)
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.ErrorLevel, e.Level)
	}
}

func TestCleaner_SkipsUnresolvableAndMissing(t *testing.T) {
	blobs := newFakeBlobs("video/thumbnail-2-b.png")
	log, hook := test.NewNullLogger()
	c := NewCleaner(blobs, locator, log, 0)

	n := c.DeleteURLs(context.Background(),
		"https://cdn.example.com/v0/b/demo.appspot.com/o/video%2Fx.png",
		"not a url",
		locator.DownloadURL("video/video-2-gone.mp4"),
		locator.DownloadURL("video/thumbnail-2-b.png"),
	)

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"video/thumbnail-2-b.png"}, blobs.deleted)

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestCleaner_FailuresAreLoggedNotCounted(t *testing.T) {
	blobs := newFakeBlobs("video/thumbnail-3-c.png", "video/video-3-c.mp4", "video/video-3-d.mp4")
	blobs.failOn["video/video-3-c.mp4"] = errors.New("permission denied")
	blobs.existsErr["video/video-3-d.mp4"] = errors.New("timeout")
	log, hook := test.NewNullLogger()
	c := NewCleaner(blobs, locator, log, 8)

	n := c.DeleteURLs(context.Background(),
		locator.DownloadURL("video/thumbnail-3-c.png"),
		locator.DownloadURL("video/video-3-c.mp4"),
		locator.DownloadURL("video/video-3-d.mp4"),
	)

	assert.Equal(t, 1, n)
	assert.True(t, blobs.objects["video/video-3-c.mp4"])

	var errs []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errs = append(errs, e.Message)
		}
	}
	assert.ElementsMatch(t, []string{"failed to delete asset", "failed to check asset"}, errs)
}

func TestCleaner_DedupesURLs(t *testing.T) {
	blobs := newFakeBlobs("video/thumbnail-4-e.png")
	log, _ := test.NewNullLogger()
	c := NewCleaner(blobs, locator, log, 4)

	u := locator.DownloadURL("video/thumbnail-4-e.png")
	assert.Equal(t, 1, c.DeleteURLs(context.Background(), u, u, u))
	assert.Len(t, blobs.deleted, 1)
	assert.Equal(t, 0, c.DeleteURLs(context.Background()))
}
