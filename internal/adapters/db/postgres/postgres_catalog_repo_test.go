package postgres

import (
	"context"
	"testing"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/catalog/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPostgresCategoryRepo_CRUD(t *testing.T) {
	repo := NewPostgresCategoryRepo(setupDB(t))
	ctx := context.Background()

	c, err := repo.CreateCategory(ctx, model.Category{Name: "Home Decor", Slug: "home_decor", Avatar: "https://cdn/a.png"})
	require.NoError(t, err)

	_, err = repo.CreateCategory(ctx, model.Category{Name: "Home decor", Slug: "home_decor", Avatar: "x"})
	require.True(t, customErrors.IsAlreadyExists(err), "got %v", err)

	got, err := repo.GetCategoryBySlug(ctx, "home_decor")
	require.NoError(t, err)
	require.Equal(t, c.ID, got.ID)

	got.Name = "Garden"
	got.Slug = "garden"
	saved, err := repo.SaveCategory(ctx, got)
	require.NoError(t, err)
	require.Equal(t, "garden", saved.Slug)

	list, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.DeleteCategory(ctx, c.ID))
	require.True(t, customErrors.IsNotFound(repo.DeleteCategory(ctx, c.ID)))
	_, err = repo.GetCategoryByID(ctx, c.ID)
	require.True(t, customErrors.IsNotFound(err))
}

func TestPostgresProductRepo_CRUD(t *testing.T) {
	db := setupDB(t)
	categories := NewPostgresCategoryRepo(db)
	repo := NewPostgresProductRepo(db)
	ctx := context.Background()

	c, err := categories.CreateCategory(ctx, model.Category{Name: "Lamps", Slug: "lamps", Avatar: "a"})
	require.NoError(t, err)

	p, err := repo.CreateProduct(ctx, model.Product{
		Name:          "Desk lamp",
		CategoryID:    c.ID,
		Images:        []string{"https://cdn/1.png", "https://cdn/2.png"},
		Dimensions:    model.Dimensions{Length: 10, Width: 5, Height: 30, Weight: 1.5},
		Price:         40,
		SalePrice:     30,
		OnSale:        true,
		StockQuantity: 3,
	})
	require.NoError(t, err)
	require.Equal(t, "Lamps", p.Category.Name)
	require.Equal(t, []string{"https://cdn/1.png", "https://cdn/2.png"}, p.Images)
	require.Equal(t, 1.5, p.Dimensions.Weight)

	p.OnSale = false
	p.SalePrice = p.Price
	p.StockQuantity = 0
	saved, err := repo.SaveProduct(ctx, p)
	require.NoError(t, err)
	require.False(t, saved.OnSale)
	require.Equal(t, 0, saved.StockQuantity)
	require.False(t, saved.InStock())

	list, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, c.ID, list[0].Category.ID)

	_, err = repo.SaveProduct(ctx, model.Product{ID: uuid.New(), Name: "ghost"})
	require.True(t, customErrors.IsNotFound(err))

	require.NoError(t, repo.DeleteProduct(ctx, p.ID))
	_, err = repo.GetProductByID(ctx, p.ID)
	require.True(t, customErrors.IsNotFound(err))
}
