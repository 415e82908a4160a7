// Package images lists the character images a chat session can display.
// Images come either from a local directory or from an S3 bucket.
package images

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/dmitrijs2005/agentchat/internal/models"
)

// Catalog lists selectable images and resolves them to URLs.
type Catalog interface {
	List(ctx context.Context) ([]string, error)
	URL(ctx context.Context, name string) (string, error)
}

var allowedExt = []string{".png", ".jpg", ".jpeg", ".gif"}

// IsImageName reports whether name has one of the supported image
// extensions, ignoring case.
func IsImageName(name string) bool {
	return slices.Contains(allowedExt, strings.ToLower(path.Ext(name)))
}

// withDefault returns names sorted, or the default image when there are none.
func withDefault(names []string) []string {
	if len(names) == 0 {
		return []string{models.DefaultCharacterImage}
	}
	slices.Sort(names)
	return names
}

// Contains reports whether name is one of the catalog's images.
func Contains(ctx context.Context, c Catalog, name string) (bool, error) {
	names, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}
