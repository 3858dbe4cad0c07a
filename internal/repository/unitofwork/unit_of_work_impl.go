package unitofwork

import (
	"context"

	"wtf2eat-be/internal/repository/contract"
	"wtf2eat-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUnitOfWork binds db to ctx so statements outside a transaction are
// canceled with the request too.
func NewUnitOfWork(ctx context.Context, db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db.WithContext(ctx),
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxActive
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return ErrNoTxActive
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return ErrNoTxActive
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) StoreRepository() contract.StoreRepository {
	return implementation.NewStoreRepository(u.getDB())
}

// memoryUnitOfWork has no isolation; writes apply immediately. It still
// tracks Begin/Commit so misuse fails the same way as with gorm.
type memoryUnitOfWork struct {
	store  contract.StoreRepository
	active bool
}

func (u *memoryUnitOfWork) Begin(ctx context.Context) error {
	if u.active {
		return ErrTxActive
	}
	u.active = true
	return nil
}

func (u *memoryUnitOfWork) Commit() error {
	if !u.active {
		return ErrNoTxActive
	}
	u.active = false
	return nil
}

func (u *memoryUnitOfWork) Rollback() error { return u.Commit() }

func (u *memoryUnitOfWork) StoreRepository() contract.StoreRepository {
	return u.store
}
