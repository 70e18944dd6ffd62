package storage

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/isotest/iso-testgen/internal/crypto"
	"github.com/isotest/iso-testgen/pkg/types"
)

// Ensure MemoryStore implements CatalogStore
var _ CatalogStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory catalog store for testing. Catalogs are kept
// encoded so loads return independent copies.
type MemoryStore struct {
	mu       sync.RWMutex
	catalogs map[string][]byte
	indent   int
}

// NewMemoryStore creates a new in-memory catalog store
func NewMemoryStore(indent int) *MemoryStore {
	return &MemoryStore{
		catalogs: make(map[string][]byte),
		indent:   indent,
	}
}

// Put stores raw catalog bytes as-is
func (m *MemoryStore) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalogs[name] = append([]byte(nil), data...)
}

// Bytes returns the stored bytes of a catalog
func (m *MemoryStore) Bytes(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.catalogs[name]
	if !exists {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Load decodes a stored catalog
func (m *MemoryStore) Load(name string) (*types.Catalog, error) {
	data, exists := m.Bytes(name)
	if !exists {
		return nil, errors.Wrapf(ErrCatalogNotFound, "catalog '%s'", name)
	}

	catalog := types.NewCatalog()
	if err := json.Unmarshal(data, catalog); err != nil {
		return nil, errors.Wrapf(err, "failed to parse catalog '%s'", name)
	}
	return catalog, nil
}

// Save encodes and stores a catalog
func (m *MemoryStore) Save(name string, catalog *types.Catalog) (string, error) {
	data, err := Encode(catalog, m.indent)
	if err != nil {
		return "", errors.Wrapf(err, "failed to encode catalog '%s'", name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalogs[name] = data
	return crypto.Checksum(data), nil
}

// Exists checks if a catalog exists
func (m *MemoryStore) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.catalogs[name]
	return exists
}
