package storage

import (
	"github.com/pkg/errors"

	"github.com/isotest/iso-testgen/pkg/types"
)

// ErrCatalogNotFound is returned when a named catalog does not exist
var ErrCatalogNotFound = errors.New("catalog not found")

// CatalogStore defines the interface for catalog storage
type CatalogStore interface {
	// Load decodes the named catalog, preserving field order
	Load(name string) (*types.Catalog, error)
	// Save encodes and stores the catalog, returning the checksum of the stored bytes
	Save(name string, catalog *types.Catalog) (string, error)
	Exists(name string) bool
}
