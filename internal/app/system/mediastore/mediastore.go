// Package mediastore stores files uploaded from the admin content form
// (sermon videos, devotional audio, event images, library files) on local
// disk or in S3, and serves them back under /files/.
package mediastore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

var (
	ErrInvalidKey  = errors.New("mediastore: invalid key")
	ErrNotFound    = errors.New("mediastore: not found")
	ErrTooLarge    = errors.New("mediastore: file too large")
	ErrUnsupported = errors.New("mediastore: unsupported file type")
)

// Store is a flat key/blob store.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	// Serve writes the object to w, directly or by redirect.
	Serve(w http.ResponseWriter, r *http.Request, key string)
}

// PublicPrefix is the URL prefix under which stored keys are served.
const PublicPrefix = "/files/"

// PublicURL is the stable URL recorded on content documents.
func PublicURL(key string) string { return PublicPrefix + key }

// KeyFromURL reverses PublicURL; ok is false for external URLs.
func KeyFromURL(u string) (string, bool) {
	if !strings.HasPrefix(u, PublicPrefix) {
		return "", false
	}
	return strings.TrimPrefix(u, PublicPrefix), true
}

func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	c := path.Clean(key)
	if c != key || c == "." || strings.HasPrefix(c, "../") || c == ".." {
		return "", ErrInvalidKey
	}
	return c, nil
}

// Upload describes a stored file.
type Upload struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Uploader validates and names uploads before handing them to a Store.
type Uploader struct {
	Store    Store
	Log      *zap.Logger
	MaxBytes int64
	Now      func() time.Time
}

// DefaultMaxBytes caps a single upload.
const DefaultMaxBytes = 200 << 20

var allowedPrefixes = []string{"image/", "audio/", "video/"}

var allowedTypes = map[string]bool{
	"application/pdf":      true,
	"application/epub+zip": true,
}

func allowed(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if allowedTypes[m.String()] {
			return true
		}
		for _, p := range allowedPrefixes {
			if strings.HasPrefix(m.String(), p) {
				return true
			}
		}
	}
	return false
}

// Upload stores r under uploads/{kind}/{unix-millis}_{name}. The content
// type is sniffed from the bytes rather than trusted from the browser.
func (u *Uploader) Upload(ctx context.Context, kind, filename string, r io.Reader) (Upload, error) {
	limit := u.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	now := time.Now
	if u.Now != nil {
		now = u.Now
	}

	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return Upload{}, ErrUnsupported
	}
	mt := mimetype.Detect(head)
	if !allowed(mt) {
		return Upload{}, fmt.Errorf("%w: %s", ErrUnsupported, mt.String())
	}

	key := fmt.Sprintf("uploads/%s/%d_%s", safeSegment(kind), now().UnixMilli(), sanitizeFilename(filename))
	counted := &countingReader{r: io.LimitReader(io.MultiReader(bytes.NewReader(head), r), limit+1)}
	if err := u.Store.Put(ctx, key, counted, mt.String()); err != nil {
		return Upload{}, fmt.Errorf("store upload: %w", err)
	}
	if counted.n > limit {
		if derr := u.Store.Delete(context.WithoutCancel(ctx), key); derr != nil && u.Log != nil {
			u.Log.Warn("failed to remove oversized upload", zap.String("key", key), zap.Error(derr))
		}
		return Upload{}, ErrTooLarge
	}
	return Upload{Key: key, URL: PublicURL(key), ContentType: mt.String(), Size: counted.n}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func safeSegment(s string) string {
	s = sanitizeFilename(strings.ToLower(s))
	if s == "file" {
		return "misc"
	}
	return s
}

// sanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with an underscore.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	s := strings.Trim(string(out), ".")
	if s == "" {
		return "file"
	}
	if len(s) > 100 {
		ext := filepath.Ext(s)
		if len(ext) > 0 && len(ext) < 10 {
			s = s[:100-len(ext)] + ext
		} else {
			s = s[:100]
		}
	}
	return s
}

// Handler serves PublicPrefix paths from s.
func Handler(s Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := KeyFromURL(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		s.Serve(w, r, key)
	})
}
