package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/dmitrijs2005/tasklist/internal/server/models"
	"github.com/dmitrijs2005/tasklist/internal/server/repositories/lists"
)

// access is the internal outcome of an ownership check. NotOwned and NotExist
// are collapsed to common.ErrorNotFound at the service boundary so another
// user's resource is indistinguishable from a missing one, but the distinction
// stays available here for audit logging.
type access int

const (
	accessOwned access = iota
	accessNotOwned
	accessNotExist
)

// authorizeList resolves listID and decides whether userID owns it. The error
// is non-nil only for store failures.
func authorizeList(ctx context.Context, repo lists.Repository, userID, listID string) (*models.List, access, error) {
	list, err := repo.Get(ctx, listID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, accessNotExist, nil
		}
		return nil, accessNotExist, err
	}
	if list.UserID != userID {
		return nil, accessNotOwned, nil
	}
	return list, accessOwned, nil
}
