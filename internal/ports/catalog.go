package ports

import (
	"context"

	"github.com/randomtoy/lifeassist-go/internal/domain"
)

// CatalogStore provides the values offered by the selectors.
type CatalogStore interface {
	GetCatalog(ctx context.Context) (domain.Catalog, error)
}
