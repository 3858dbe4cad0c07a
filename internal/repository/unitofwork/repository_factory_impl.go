package unitofwork

import (
	"context"

	"wtf2eat-be/internal/repository/contract"

	"gorm.io/gorm"
)

type RepositoryFactoryImpl struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db: db,
	}
}

func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return NewUnitOfWork(ctx, f.db)
}

// MemoryRepositoryFactory hands out units of work over a shared in-memory store.
type MemoryRepositoryFactory struct {
	store contract.StoreRepository
}

func NewMemoryRepositoryFactory(store contract.StoreRepository) RepositoryFactory {
	return &MemoryRepositoryFactory{store: store}
}

func (f *MemoryRepositoryFactory) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return &memoryUnitOfWork{store: f.store}
}
