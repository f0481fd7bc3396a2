package media

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	DefaultDownloadHost = "firebasestorage.googleapis.com"

	// Folder holds every uploaded asset; the kind is carried in the filename prefix.
	Folder = "video"

	KindThumbnail = "thumbnail"
	KindVideo     = "video"
)

// Locator maps storage object keys to public download URLs and back.
// Download URLs look like https://<host>/v0/b/<bucket>/o/<escaped key>?alt=media.
type Locator struct {
	Host   string
	Bucket string
}

func NewLocator(host, bucket string) Locator {
	if host == "" {
		host = DefaultDownloadHost
	}
	return Locator{Host: host, Bucket: bucket}
}

// ObjectKey returns the decoded object key a download URL refers to.
// ok is false for empty or malformed URLs, foreign hosts and URLs without an /o/ segment.
func (l Locator) ObjectKey(raw string) (key string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	if !strings.EqualFold(u.Hostname(), l.Host) {
		return "", false
	}

	p := u.EscapedPath()
	i := strings.Index(p, "/o/")
	if i < 0 {
		return "", false
	}
	key, err = url.PathUnescape(p[i+len("/o/"):])
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

func (l Locator) DownloadURL(key string) string {
	return fmt.Sprintf("https://%s/v0/b/%s/o/%s?alt=media", l.Host, url.PathEscape(l.Bucket), url.PathEscape(key))
}

func ValidKind(kind string) bool {
	return kind == KindThumbnail || kind == KindVideo
}

// ObjectKeyFor builds <folder>/<kind>-<unix millis>-<filename>.
func ObjectKeyFor(kind, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%s-%d-%s", Folder, kind, at.UnixMilli(), cleanFilename(filename))
}

func cleanFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}
