package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid object key")
)

// Store keeps uploaded resume files. Keys are flat file names.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// URL is the public path the object is served under.
	URL(key string) string
}

// NewKey builds resume-<unix millis>-<random><ext> from the uploaded file name.
func NewKey(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("resume-%d-%d%s", now.UnixMilli(), rand.Int64N(1_000_000_000), ext)
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	return nil
}

func publicURL(prefix, key string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		prefix = "/"
	}
	return path.Join(prefix, key)
}
