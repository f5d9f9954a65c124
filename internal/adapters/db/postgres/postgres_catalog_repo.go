package postgres

import (
	"context"
	"errors"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/catalog/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresCategoryRepo struct {
	db *gorm.DB
}

func NewPostgresCategoryRepo(db *gorm.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: db}
}

func (p *PostgresCategoryRepo) CreateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := p.db.WithContext(ctx).Create(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Category{}, customErrors.NewAlreadyExists("category with this name")
		}
		return model.Category{}, customErrors.WrapInternal(err, "CreateCategory")
	}
	return c, nil
}

func (p *PostgresCategoryRepo) GetCategoryByID(ctx context.Context, id uuid.UUID) (model.Category, error) {
	return p.first(ctx, "GetCategoryByID", "id = ?", id)
}

func (p *PostgresCategoryRepo) GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	return p.first(ctx, "GetCategoryBySlug", "slug = ?", slug)
}

func (p *PostgresCategoryRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if err := p.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListCategories")
	}
	return out, nil
}

func (p *PostgresCategoryRepo) SaveCategory(ctx context.Context, c model.Category) (model.Category, error) {
	res := p.db.WithContext(ctx).Model(&c).
		Select("name", "slug", "avatar").
		Updates(&c)
	if err := res.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Category{}, customErrors.NewAlreadyExists("category with this name")
		}
		return model.Category{}, customErrors.WrapInternal(err, "SaveCategory")
	}
	if res.RowsAffected == 0 {
		return model.Category{}, customErrors.NewNotFound("category")
	}
	return p.GetCategoryByID(ctx, c.ID)
}

func (p *PostgresCategoryRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{})
	if err := res.Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return customErrors.NewInvalidArgument("category still has products")
		}
		return customErrors.WrapInternal(err, "DeleteCategory")
	}
	if res.RowsAffected == 0 {
		return customErrors.NewNotFound("category")
	}
	return nil
}

func (p *PostgresCategoryRepo) first(ctx context.Context, op, cond string, arg any) (model.Category, error) {
	var c model.Category
	res := p.db.WithContext(ctx).Where(cond, arg).First(&c)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Category{}, customErrors.NewNotFound("category")
	}
	if err := res.Error; err != nil {
		return model.Category{}, customErrors.WrapInternal(err, op)
	}
	return c, nil
}

// productColumns are written on save; zero values included.
var productColumns = []string{
	"name", "description", "short_description", "category_id", "images",
	"dim_length", "dim_width", "dim_height", "dim_weight",
	"price", "sale_price", "on_sale", "stock_quantity", "total_sales",
	"shipping_required", "average_rating", "rating_count",
}

type PostgresProductRepo struct {
	db *gorm.DB
}

func NewPostgresProductRepo(db *gorm.DB) *PostgresProductRepo {
	return &PostgresProductRepo{db: db}
}

func (p *PostgresProductRepo) CreateProduct(ctx context.Context, prod model.Product) (model.Product, error) {
	if prod.ID == uuid.Nil {
		prod.ID = uuid.New()
	}
	if err := p.db.WithContext(ctx).Omit(clause.Associations).Create(&prod).Error; err != nil {
		return model.Product{}, customErrors.WrapInternal(err, "CreateProduct")
	}
	return p.GetProductByID(ctx, prod.ID)
}

func (p *PostgresProductRepo) GetProductByID(ctx context.Context, id uuid.UUID) (model.Product, error) {
	var prod model.Product
	res := p.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&prod)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Product{}, customErrors.NewNotFound("product")
	}
	if err := res.Error; err != nil {
		return model.Product{}, customErrors.WrapInternal(err, "GetProductByID")
	}
	return prod, nil
}

func (p *PostgresProductRepo) ListProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := p.db.WithContext(ctx).Preload("Category").Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "ListProducts")
	}
	return out, nil
}

func (p *PostgresProductRepo) SaveProduct(ctx context.Context, prod model.Product) (model.Product, error) {
	res := p.db.WithContext(ctx).Model(&prod).
		Select(productColumns).
		Updates(&prod)
	if err := res.Error; err != nil {
		return model.Product{}, customErrors.WrapInternal(err, "SaveProduct")
	}
	if res.RowsAffected == 0 {
		return model.Product{}, customErrors.NewNotFound("product")
	}
	return p.GetProductByID(ctx, prod.ID)
}

func (p *PostgresProductRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteProduct")
	}
	if res.RowsAffected == 0 {
		return customErrors.NewNotFound("product")
	}
	return nil
}
