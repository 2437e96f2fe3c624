package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"campus-merch-store/internal/config"
)

var ErrObjectExists = errors.New("object already exists")

// ObjectStore stores binary objects under bucket/key and resolves the public
// URL they are served from.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader) error
	PublicURL(bucket, key string) string
}

type localObjectStore struct {
	root    string
	baseURL string
}

// NewLocalObjectStore keeps objects on disk under cfg.Root; the HTTP server
// serves that directory at cfg.PublicBaseURL.
func NewLocalObjectStore(cfg *config.Storage) (ObjectStore, error) {
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &localObjectStore{
		root:    cfg.Root,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func validName(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func (s *localObjectStore) Upload(ctx context.Context, bucket, key string, body io.Reader) error {
	if !validName(bucket) || !validName(key) {
		return fmt.Errorf("invalid object path %q/%q", bucket, key)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Join(s.root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrObjectExists
		}
		return err
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	return f.Close()
}

func (s *localObjectStore) PublicURL(bucket, key string) string {
	return s.baseURL + "/" + url.PathEscape(bucket) + "/" + url.PathEscape(key)
}
