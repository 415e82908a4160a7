package images

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/agentchat/internal/common"
)

// URLPrefix is where the HTTP API serves local images.
const URLPrefix = "/images/"

// LocalCatalog reads images from a directory on disk.
type LocalCatalog struct {
	dir string
}

// NewLocalCatalog creates dir when it does not exist.
func NewLocalCatalog(dir string) (*LocalCatalog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("images dir: %w", err)
	}
	return &LocalCatalog{dir: dir}, nil
}

// List returns the image file names in the directory, sorted. An empty
// directory yields the default image name.
func (c *LocalCatalog) List(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("images dir: %w", err)
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("images dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && IsImageName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return withDefault(names), nil
}

func (c *LocalCatalog) URL(ctx context.Context, name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("image %q: %w", name, common.ErrorValidation)
	}
	return URLPrefix + url.PathEscape(name), nil
}

// Path returns the file path of an existing image. Names that try to leave
// the directory are rejected.
func (c *LocalCatalog) Path(name string) (string, error) {
	if !validName(name) || !IsImageName(name) {
		return "", fmt.Errorf("image %q: %w", name, common.ErrorValidation)
	}

	p := filepath.Join(c.dir, name)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", common.ErrorNotFound
		}
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", common.ErrorNotFound
	}
	return p, nil
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
