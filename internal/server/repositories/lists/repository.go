// Package lists provides a PostgreSQL-backed repository for task lists.
package lists

import (
	"context"

	"github.com/dmitrijs2005/tasklist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, list *models.List) (*models.List, error)
	// Get returns a list by id regardless of owner; ownership decisions
	// belong to the service layer.
	Get(ctx context.Context, id string) (*models.List, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.List, error)
	Update(ctx context.Context, list *models.List) (*models.List, error)
	Delete(ctx context.Context, id string) error
}
