package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/logging"
	"github.com/dmitrijs2005/tasklist/internal/server/models"
	"github.com/dmitrijs2005/tasklist/internal/server/repositories/repomanager"
)

// TaskUpdate carries the mutable task fields; nil fields are left unchanged.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *TaskService {
	return &TaskService{
		db:          db,
		repomanager: m,
		logger:      l.With("module", "task_service"),
	}
}

// Create makes a new task in listID, provided userID owns that list. A list
// that exists but belongs to someone else looks exactly like a missing list.
func (s *TaskService) Create(ctx context.Context, userID, listID, description string, completed bool) (*models.Task, error) {
	if description == "" {
		return nil, common.ErrorValidation
	}

	_, acc, err := authorizeList(ctx, s.repomanager.Lists(s.db), userID, listID)
	if err != nil {
		s.logger.Error(ctx, "error resolving list", "error", err)
		return nil, common.ErrorInternal
	}
	if acc != accessOwned {
		s.auditDenied(ctx, acc, userID, listID)
		return nil, common.ErrorNotFound
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		ListID:      listID,
		Description: description,
		Completed:   completed,
	}

	task, err = s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		s.logger.Error(ctx, "error creating task", "error", err)
		return nil, common.ErrorInternal
	}
	return task, nil
}

// GetAllInList returns every task in listID, provided userID owns the list.
func (s *TaskService) GetAllInList(ctx context.Context, userID, listID string) ([]*models.Task, error) {
	_, acc, err := authorizeList(ctx, s.repomanager.Lists(s.db), userID, listID)
	if err != nil {
		s.logger.Error(ctx, "error resolving list", "error", err)
		return nil, common.ErrorInternal
	}
	if acc != accessOwned {
		s.auditDenied(ctx, acc, userID, listID)
		return nil, common.ErrorNotFound
	}

	result, err := s.repomanager.Tasks(s.db).ListByList(ctx, listID)
	if err != nil {
		s.logger.Error(ctx, "error selecting tasks", "error", err)
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Get returns the task only if userID owns its parent list.
func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*models.Task, error) {
	return s.resolveOwned(ctx, userID, taskID)
}

// Update applies the non-nil fields of upd to the task, provided userID owns
// its parent list.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, upd TaskUpdate) (*models.Task, error) {
	task, err := s.resolveOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if upd.Description != nil {
		if *upd.Description == "" {
			return nil, common.ErrorValidation
		}
		task.Description = *upd.Description
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}

	task, err = s.repomanager.Tasks(s.db).Update(ctx, task)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error updating task", "error", err)
		return nil, common.ErrorInternal
	}
	return task, nil
}

// Delete removes the task, provided userID owns its parent list.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	task, err := s.resolveOwned(ctx, userID, taskID)
	if err != nil {
		return err
	}

	if err := s.repomanager.Tasks(s.db).Delete(ctx, task.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "error deleting task", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// resolveOwned loads the task and applies the transitive ownership rule: the
// task's parent list must belong to userID, otherwise the task is reported
// as not found.
func (s *TaskService) resolveOwned(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error resolving task", "error", err)
		return nil, common.ErrorInternal
	}

	_, acc, err := authorizeList(ctx, s.repomanager.Lists(s.db), userID, task.ListID)
	if err != nil {
		s.logger.Error(ctx, "error resolving list", "error", err)
		return nil, common.ErrorInternal
	}
	if acc != accessOwned {
		s.auditDenied(ctx, acc, userID, task.ListID)
		return nil, common.ErrorNotFound
	}

	return task, nil
}

func (s *TaskService) auditDenied(ctx context.Context, acc access, userID, listID string) {
	if acc == accessNotOwned {
		s.logger.Warn(ctx, "denied access to foreign list", "user_id", userID, "list_id", listID)
	}
}
