package styles

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/randomtoy/vibecheck/internal/domain"
)

//go:embed data/styles.yaml
var defaultCatalog []byte

// EmbeddedStore serves the style catalog compiled into the binary. The
// catalog is parsed and validated once, then shared read-only.
type EmbeddedStore struct {
	raw []byte

	once    sync.Once
	catalog domain.Catalog
	err     error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{raw: defaultCatalog}
}

// NewStoreFromYAML builds a store from an arbitrary YAML document with the
// same shape as data/styles.yaml.
func NewStoreFromYAML(raw []byte) *EmbeddedStore {
	return &EmbeddedStore{raw: raw}
}

func (s *EmbeddedStore) init() {
	var c domain.Catalog
	if err := yaml.Unmarshal(s.raw, &c); err != nil {
		s.err = fmt.Errorf("parse style catalog: %w", err)
		return
	}
	if err := c.Validate(); err != nil {
		s.err = err
		return
	}
	s.catalog = c
}

func (s *EmbeddedStore) Catalog(_ context.Context) (domain.Catalog, error) {
	s.once.Do(s.init)
	if s.err != nil {
		return domain.Catalog{}, s.err
	}
	out := make([]domain.Style, len(s.catalog.Styles))
	copy(out, s.catalog.Styles)
	return domain.Catalog{Styles: out}, nil
}
