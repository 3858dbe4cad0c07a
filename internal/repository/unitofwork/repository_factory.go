package unitofwork

import (
	"context"

	"wtf2eat-be/internal/repository/contract"
)

// RepositoryFactory hands out units of work bound to a request context.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

// Transact runs fn against the store inside one transaction. fn's error
// rolls the transaction back and is returned unchanged.
func Transact(ctx context.Context, f RepositoryFactory, fn func(repo contract.StoreRepository) error) (err error) {
	uow := f.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	if err = fn(uow.StoreRepository()); err != nil {
		return err
	}
	return uow.Commit()
}
