package services

import (
	"context"
	"errors"
	"fmt"

	"plmsourcing/internal/common"
	"plmsourcing/internal/repositories"
)

// Versioned is implemented by entities carrying an optimistic-lock counter
type Versioned interface {
	GetVersion() int64
}

// versionedUpdater is the write half of a repository for a versioned entity
type versionedUpdater[E Versioned] interface {
	Update(ctx context.Context, entity E, expectedVersion int64) error
}

// updateWithVersion compares expected against the loaded entity before any
// field is touched, applies mutate, then persists with the same version guard.
// A mismatch on either side is reported as Conflict and nothing is written.
func updateWithVersion[E Versioned](ctx context.Context, repo versionedUpdater[E], current E, expected int64, mutate func(E) error) error {
	if actual := current.GetVersion(); actual != expected {
		return common.NewVersionConflict(expected, actual)
	}

	if err := mutate(current); err != nil {
		return err
	}

	if err := repo.Update(ctx, current, expected); err != nil {
		if errors.Is(err, repositories.ErrStaleVersion) {
			return common.NewConflict(fmt.Sprintf("Version mismatch. Expected %d but the record was modified concurrently", expected))
		}
		return err
	}
	return nil
}

// runInTx runs fn in one transaction and turns a lost serialization race into Conflict
func runInTx(ctx context.Context, txm repositories.TxManager, fn func(repos *repositories.Repositories) error) error {
	err := txm.WithinTx(ctx, fn)
	if err != nil && repositories.SerializationFailure(err) {
		return &common.AppError{Kind: common.KindConflict, Message: "Concurrent modification detected. Please retry.", Err: err}
	}
	return err
}
