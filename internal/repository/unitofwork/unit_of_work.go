package unitofwork

import (
	"context"
	"errors"

	"wtf2eat-be/internal/repository/contract"
)

var (
	ErrTxActive   = errors.New("unitofwork: transaction already started")
	ErrNoTxActive = errors.New("unitofwork: no transaction in progress")
)

// UnitOfWork scopes store access. Outside Begin/Commit every call is applied
// on its own.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	StoreRepository() contract.StoreRepository
}
