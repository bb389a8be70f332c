package lists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/dbx"
	"github.com/dmitrijs2005/tasklist/internal/server/models"
)

// PostgresRepository implements list storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new list row owned by list.UserID.
func (r *PostgresRepository) Create(ctx context.Context, list *models.List) (*models.List, error) {
	query := `
		INSERT INTO lists (id, name, user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, list.ID, list.Name, list.UserID).Scan(&list.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

// Get returns the list with the given id, or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.List, error) {
	query := `SELECT id, name, user_id, created_at, updated_at FROM lists WHERE id = $1`

	list := &models.List{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&list.ID, &list.Name, &list.UserID, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

// ListByOwner returns all lists owned by userID, oldest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.List, error) {
	query := `SELECT id, name, user_id, created_at, updated_at FROM lists WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.List
	for rows.Next() {
		var item models.List
		if err := rows.Scan(&item.ID, &item.Name, &item.UserID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update renames the list and stamps updated_at. Returns common.ErrorNotFound
// if no row matches.
func (r *PostgresRepository) Update(ctx context.Context, list *models.List) (*models.List, error) {
	query := `
		UPDATE lists SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, list.ID, list.Name).Scan(&list.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return list, nil
}

// Delete removes the list row. Returns common.ErrorNotFound if no row matches.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM lists WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
