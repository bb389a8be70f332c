// Package tasks provides a PostgreSQL-backed repository for tasks.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/tasklist/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	// Get returns a task by id regardless of who owns the parent list;
	// ownership decisions belong to the service layer.
	Get(ctx context.Context, id string) (*models.Task, error)
	ListByList(ctx context.Context, listID string) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	// DeleteByList removes every task belonging to listID. Used inside the
	// cascade-delete transaction of the parent list.
	DeleteByList(ctx context.Context, listID string) error
}
