package types

import (
	"encoding/json"
	"fmt"
)

// TestCases maps stable test-case keys to generated values. Setting an
// existing key overwrites it in place.
type TestCases struct {
	keys  []string
	cases map[string]TestCase
}

// NewTestCases creates an empty test case set
func NewTestCases() *TestCases {
	return &TestCases{cases: make(map[string]TestCase)}
}

// Set stores a test case under key
func (tc *TestCases) Set(key string, c TestCase) {
	if tc.cases == nil {
		tc.cases = make(map[string]TestCase)
	}
	if _, exists := tc.cases[key]; !exists {
		tc.keys = append(tc.keys, key)
	}
	tc.cases[key] = c
}

// Get returns the test case stored under key
func (tc *TestCases) Get(key string) (TestCase, bool) {
	c, ok := tc.cases[key]
	return c, ok
}

// Keys returns test case keys in the order they were first set
func (tc *TestCases) Keys() []string {
	return append([]string(nil), tc.keys...)
}

// Len returns the number of test cases
func (tc *TestCases) Len() int {
	return len(tc.keys)
}

// MarshalJSON keeps generation order in the output
func (tc *TestCases) MarshalJSON() ([]byte, error) {
	obj := NewObject()
	for _, key := range tc.keys {
		if err := obj.SetValue(key, tc.cases[key]); err != nil {
			return nil, err
		}
	}
	return obj.MarshalJSON()
}

// UnmarshalJSON reads test cases preserving their order
func (tc *TestCases) UnmarshalJSON(data []byte) error {
	obj := NewObject()
	if err := obj.UnmarshalJSON(data); err != nil {
		return err
	}
	*tc = TestCases{cases: make(map[string]TestCase, obj.Len())}
	for _, key := range obj.Keys() {
		raw, _ := obj.Get(key)
		var c TestCase
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("test case %q: %w", key, err)
		}
		tc.Set(key, c)
	}
	return nil
}

// Catalog is the ordered mapping of field key to field definition that
// describes one message format.
type Catalog struct {
	keys   []string
	fields map[string]*Field
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{fields: make(map[string]*Field)}
}

// Keys returns field keys in catalog order
func (c *Catalog) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Len returns the number of fields
func (c *Catalog) Len() int {
	return len(c.keys)
}

// Get returns the field stored under key
func (c *Catalog) Get(key string) (*Field, bool) {
	f, ok := c.fields[key]
	return f, ok
}

// Set stores a field. Existing keys keep their position.
func (c *Catalog) Set(key string, f *Field) {
	if c.fields == nil {
		c.fields = make(map[string]*Field)
	}
	if _, exists := c.fields[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.fields[key] = f
}

// MarshalJSON writes fields in catalog order
func (c *Catalog) MarshalJSON() ([]byte, error) {
	obj := NewObject()
	for _, key := range c.keys {
		raw, err := c.fields[key].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		obj.Set(key, raw)
	}
	return obj.MarshalJSON()
}

// UnmarshalJSON reads a catalog preserving field order
func (c *Catalog) UnmarshalJSON(data []byte) error {
	obj := NewObject()
	if err := obj.UnmarshalJSON(data); err != nil {
		return err
	}
	*c = Catalog{fields: make(map[string]*Field, obj.Len())}
	for _, key := range obj.Keys() {
		raw, _ := obj.Get(key)
		f := &Field{}
		if err := f.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		c.Set(key, f)
	}
	return nil
}
