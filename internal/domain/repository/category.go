package repository

import (
	"context"

	"qurainbot/internal/domain/entity"
)

// CategoryRepository reads directory categories.
type CategoryRepository interface {
	// List returns all categories ordered by code.
	List(ctx context.Context) ([]*entity.ServiceCategory, error)
	// FindByCode returns one category or nil when the code is unknown.
	FindByCode(ctx context.Context, code string) (*entity.ServiceCategory, error)
	// SeedIfMissing inserts categories whose code is not stored yet.
	SeedIfMissing(ctx context.Context, categories []*entity.ServiceCategory) error
}
