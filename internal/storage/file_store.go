package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/isotest/iso-testgen/internal/crypto"
	"github.com/isotest/iso-testgen/pkg/types"
)

// DefaultIndent is the indentation width used for catalog files
const DefaultIndent = 2

// Ensure FileStore implements CatalogStore
var _ CatalogStore = (*FileStore)(nil)

// FileStore stores catalogs as JSON files. Names are file paths, resolved
// against the root directory when relative.
type FileStore struct {
	root   string
	indent int
}

// NewFileStore creates a file-backed catalog store
func NewFileStore(root string, indent int) *FileStore {
	return &FileStore{
		root:   root,
		indent: indent,
	}
}

// Path resolves a catalog name to its file path
func (s *FileStore) Path(name string) string {
	if filepath.IsAbs(name) || s.root == "" {
		return name
	}
	return filepath.Join(s.root, name)
}

// Load reads and decodes a catalog file
func (s *FileStore) Load(name string) (*types.Catalog, error) {
	path := s.Path(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrCatalogNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "failed to read catalog %s", path)
	}

	catalog := types.NewCatalog()
	if err := json.Unmarshal(data, catalog); err != nil {
		return nil, errors.Wrapf(err, "failed to parse catalog %s", path)
	}
	return catalog, nil
}

// Save encodes the catalog and writes it atomically
func (s *FileStore) Save(name string, catalog *types.Catalog) (string, error) {
	path := s.Path(name)

	data, err := Encode(catalog, s.indent)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode catalog")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}

	// Write to temp file first
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write catalog")
	}

	// Rename atomically
	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return "", errors.Wrap(err, "failed to save catalog")
	}

	return crypto.Checksum(data), nil
}

// Exists checks if a catalog file exists
func (s *FileStore) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// Encode renders a catalog as indented JSON with non-ASCII and HTML
// characters written literally
func Encode(catalog *types.Catalog, indent int) ([]byte, error) {
	raw, err := types.Marshal(catalog)
	if err != nil {
		return nil, err
	}
	if indent <= 0 {
		return raw, nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", spaces(indent)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func spaces(n int) string {
	return string(bytes.Repeat([]byte(" "), n))
}
