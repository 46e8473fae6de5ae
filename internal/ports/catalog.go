package ports

import (
	"context"

	"github.com/randomtoy/vibecheck/internal/domain"
)

// StyleCatalog provides the wheel's styles.
type StyleCatalog interface {
	Catalog(ctx context.Context) (domain.Catalog, error)
}
