package repo

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/catalog/model"
	"github.com/google/uuid"
)

type CategoryRepo interface {
	CreateCategory(ctx context.Context, c model.Category) (model.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	SaveCategory(ctx context.Context, c model.Category) (model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type ProductRepo interface {
	CreateProduct(ctx context.Context, p model.Product) (model.Product, error)
	// GetProductByID returns the product with its category populated.
	GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	SaveProduct(ctx context.Context, p model.Product) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
