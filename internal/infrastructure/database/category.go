package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qurainbot/internal/domain/entity"
	"qurainbot/internal/domain/repository"
	appErrors "qurainbot/internal/pkg/errors"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]*entity.ServiceCategory, error) {
	var categories []*entity.ServiceCategory
	if err := r.db.WithContext(ctx).Order("id asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to list categories: %v", appErrors.ErrDatabaseOperation, err)
	}
	return categories, nil
}

func (r *categoryRepository) FindByCode(ctx context.Context, code string) (*entity.ServiceCategory, error) {
	var category entity.ServiceCategory
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to find category %s: %v", appErrors.ErrDatabaseOperation, code, err)
	}
	return &category, nil
}

func (r *categoryRepository) SeedIfMissing(ctx context.Context, categories []*entity.ServiceCategory) error {
	if len(categories) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&categories).Error
	if err != nil {
		return fmt.Errorf("%w: failed to seed categories: %v", appErrors.ErrDatabaseOperation, err)
	}
	return nil
}
