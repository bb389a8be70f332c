package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/dbx"
	"github.com/dmitrijs2005/tasklist/internal/logging"
	"github.com/dmitrijs2005/tasklist/internal/server/models"
	"github.com/dmitrijs2005/tasklist/internal/server/repositories/repomanager"
)

type ListService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewListService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *ListService {
	return &ListService{
		db:          db,
		repomanager: m,
		logger:      l.With("module", "list_service"),
	}
}

// Create makes a new list owned by userID.
func (s *ListService) Create(ctx context.Context, userID, name string) (*models.List, error) {
	if name == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Lists(s.db)

	list := &models.List{
		ID:     uuid.NewString(),
		Name:   name,
		UserID: userID,
	}

	list, err := repo.Create(ctx, list)
	if err != nil {
		s.logger.Error(ctx, "error creating list", "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// GetAll returns every list owned by userID.
func (s *ListService) GetAll(ctx context.Context, userID string) ([]*models.List, error) {
	repo := s.repomanager.Lists(s.db)

	result, err := repo.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "error selecting lists", "error", err)
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Get returns the list only if userID owns it; otherwise common.ErrorNotFound.
func (s *ListService) Get(ctx context.Context, userID, listID string) (*models.List, error) {
	repo := s.repomanager.Lists(s.db)

	list, acc, err := authorizeList(ctx, repo, userID, listID)
	if err != nil {
		s.logger.Error(ctx, "error resolving list", "error", err)
		return nil, common.ErrorInternal
	}
	if acc != accessOwned {
		s.auditDenied(ctx, acc, userID, listID)
		return nil, common.ErrorNotFound
	}
	return list, nil
}

// Update renames the list if userID owns it.
func (s *ListService) Update(ctx context.Context, userID, listID, name string) (*models.List, error) {
	if name == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Lists(s.db)

	list, acc, err := authorizeList(ctx, repo, userID, listID)
	if err != nil {
		s.logger.Error(ctx, "error resolving list", "error", err)
		return nil, common.ErrorInternal
	}
	if acc != accessOwned {
		s.auditDenied(ctx, acc, userID, listID)
		return nil, common.ErrorNotFound
	}

	list.Name = name
	list, err = repo.Update(ctx, list)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error updating list", "error", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Delete removes the list and all its tasks in one transaction, if userID
// owns it.
func (s *ListService) Delete(ctx context.Context, userID, listID string) error {
	_, acc, err := authorizeList(ctx, s.repomanager.Lists(s.db), userID, listID)
	if err != nil {
		s.logger.Error(ctx, "error resolving list", "error", err)
		return common.ErrorInternal
	}
	if acc != accessOwned {
		s.auditDenied(ctx, acc, userID, listID)
		return common.ErrorNotFound
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Tasks(tx).DeleteByList(ctx, listID); err != nil {
			return err
		}
		return s.repomanager.Lists(tx).Delete(ctx, listID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "error deleting list", "error", err)
		return common.ErrorInternal
	}
	return nil
}

func (s *ListService) auditDenied(ctx context.Context, acc access, userID, listID string) {
	if acc == accessNotOwned {
		s.logger.Warn(ctx, "denied access to foreign list", "user_id", userID, "list_id", listID)
	}
}
