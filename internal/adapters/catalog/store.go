package catalog

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/randomtoy/lifeassist-go/internal/domain"
)

//go:embed data/catalog.yaml
var catalogFS embed.FS

const catalogFile = "data/catalog.yaml"

// EmbeddedStore loads the selector catalog from the embedded YAML file.
type EmbeddedStore struct {
	once    sync.Once
	catalog domain.Catalog
	err     error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (s *EmbeddedStore) init() {
	raw, err := catalogFS.ReadFile(catalogFile)
	if err != nil {
		s.err = fmt.Errorf("read embedded catalog: %w", err)
		return
	}
	s.catalog, s.err = Parse(raw)
}

func (s *EmbeddedStore) GetCatalog(_ context.Context) (domain.Catalog, error) {
	s.once.Do(s.init)
	return s.catalog, s.err
}

// Parse decodes a catalog document and rejects empty selectors.
func Parse(raw []byte) (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	switch {
	case len(c.Scenarios) == 0:
		return domain.Catalog{}, fmt.Errorf("parse catalog: no scenarios")
	case len(c.Moods) == 0:
		return domain.Catalog{}, fmt.Errorf("parse catalog: no moods")
	case len(c.Zodiac) == 0:
		return domain.Catalog{}, fmt.Errorf("parse catalog: no zodiac signs")
	}
	return c, nil
}
