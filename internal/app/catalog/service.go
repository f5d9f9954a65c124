package catalog

import (
	"context"
	"strings"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/catalog/model"
	repo "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/catalog/repo"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/media"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	AddCategory(context.Context, dto.CategoryDTO) (model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in dto.UpdateCategoryDTO) (model.Category, error)
	ListCategories(context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	AddProduct(context.Context, dto.ProductDTO) (model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in dto.UpdateProductDTO) (model.Product, error)
	ListProducts(context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	categories repo.CategoryRepo
	products   repo.ProductRepo
	storage    media.Storage
	v          *validator.Validate
	log        *zap.Logger
}

func New(cr repo.CategoryRepo, pr repo.ProductRepo, st media.Storage, v *validator.Validate, log *zap.Logger) Service {
	return &catalogService{categories: cr, products: pr, storage: st, v: v, log: log}
}

func (s *catalogService) AddCategory(ctx context.Context, in dto.CategoryDTO) (model.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.v.Struct(in); err != nil {
		return model.Category{}, customErrors.NewInvalidArgument(err.Error())
	}
	slug, err := s.freeSlug(ctx, in.Name, uuid.Nil)
	if err != nil {
		return model.Category{}, err
	}
	if in.AvatarPath == "" {
		return model.Category{}, customErrors.NewInvalidArgument("avatar is required")
	}

	avatar, err := s.storage.Upload(ctx, in.AvatarPath)
	if err != nil {
		return model.Category{}, err
	}

	c, err := s.categories.CreateCategory(ctx, model.Category{
		ID:     uuid.New(),
		Name:   in.Name,
		Slug:   slug,
		Avatar: avatar,
	})
	if err != nil {
		s.deleteBestEffort(ctx, avatar)
		return model.Category{}, err
	}
	return c, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, in dto.UpdateCategoryDTO) (model.Category, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if err := s.v.Struct(in); err != nil {
		return model.Category{}, customErrors.NewInvalidArgument(err.Error())
	}
	if in.Name == nil && in.AvatarPath == "" {
		return model.Category{}, customErrors.NewInvalidArgument("name or avatar is required")
	}

	c, err := s.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return model.Category{}, err
	}

	if in.Name != nil {
		slug, err := s.freeSlug(ctx, *in.Name, c.ID)
		if err != nil {
			return model.Category{}, err
		}
		c.Name, c.Slug = *in.Name, slug
	}

	oldAvatar := ""
	if in.AvatarPath != "" {
		avatar, err := s.storage.Upload(ctx, in.AvatarPath)
		if err != nil {
			return model.Category{}, err
		}
		oldAvatar, c.Avatar = c.Avatar, avatar
	}

	saved, err := s.categories.SaveCategory(ctx, c)
	if err != nil {
		if oldAvatar != "" {
			s.deleteBestEffort(ctx, c.Avatar)
		}
		return model.Category{}, err
	}
	if oldAvatar != "" {
		s.deleteBestEffort(ctx, oldAvatar)
	}
	return saved, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.ListCategories(ctx)
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (model.Category, error) {
	return s.categories.GetCategoryByID(ctx, id)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	c, err := s.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.deleteBestEffort(ctx, c.Avatar)
	return nil
}

// freeSlug derives the slug for name and fails if it belongs to a category other than self.
func (s *catalogService) freeSlug(ctx context.Context, name string, self uuid.UUID) (string, error) {
	slug := Slugify(name)
	if slug == "" {
		return "", customErrors.NewInvalidArgument("name must contain letters or digits")
	}

	existing, err := s.categories.GetCategoryBySlug(ctx, slug)
	switch {
	case err == nil && existing.ID != self:
		return "", customErrors.NewAlreadyExists("category with this name")
	case err != nil && !customErrors.IsNotFound(err):
		return "", err
	}
	return slug, nil
}

func (s *catalogService) AddProduct(ctx context.Context, in dto.ProductDTO) (model.Product, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Product{}, customErrors.NewInvalidArgument(err.Error())
	}

	category, err := s.categories.GetCategoryBySlug(ctx, strings.TrimSpace(in.Category))
	if err != nil {
		return model.Product{}, err
	}

	images, err := s.uploadAll(ctx, in.ImagePaths)
	if err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		CategoryID:       category.ID,
		Images:           images,
		Dimensions: model.Dimensions{
			Length: in.Length,
			Width:  in.Width,
			Height: in.Height,
			Weight: in.Weight,
		},
		Price:            in.Price,
		SalePrice:        in.SalePrice,
		OnSale:           in.OnSale,
		StockQuantity:    in.StockQuantity,
		ShippingRequired: in.ShippingRequired,
	}
	applySalePrice(&p)

	created, err := s.products.CreateProduct(ctx, p)
	if err != nil {
		s.deleteAll(ctx, images)
		return model.Product{}, err
	}
	return created, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in dto.UpdateProductDTO) (model.Product, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Product{}, customErrors.NewInvalidArgument(err.Error())
	}

	p, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	if in.Category != nil {
		category, err := s.categories.GetCategoryBySlug(ctx, strings.TrimSpace(*in.Category))
		if err != nil {
			return model.Product{}, err
		}
		p.CategoryID = category.ID
	}

	setString(&p.Name, in.Name)
	setString(&p.Description, in.Description)
	setString(&p.ShortDescription, in.ShortDescription)
	setValue(&p.Price, in.Price)
	setValue(&p.SalePrice, in.SalePrice)
	setValue(&p.OnSale, in.OnSale)
	setValue(&p.StockQuantity, in.StockQuantity)
	setValue(&p.ShippingRequired, in.ShippingRequired)
	setValue(&p.Dimensions.Length, in.Length)
	setValue(&p.Dimensions.Width, in.Width)
	setValue(&p.Dimensions.Height, in.Height)
	setValue(&p.Dimensions.Weight, in.Weight)

	var oldImages []string
	if len(in.ImagePaths) > 0 {
		images, err := s.uploadAll(ctx, in.ImagePaths)
		if err != nil {
			return model.Product{}, err
		}
		oldImages, p.Images = p.Images, images
	}
	applySalePrice(&p)

	saved, err := s.products.SaveProduct(ctx, p)
	if err != nil {
		if oldImages != nil {
			s.deleteAll(ctx, p.Images)
		}
		return model.Product{}, err
	}
	s.deleteAll(ctx, oldImages)
	return saved, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.products.ListProducts(ctx)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return s.products.GetProductByID(ctx, id)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	p, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.deleteAll(ctx, p.Images)
	return nil
}

// applySalePrice keeps salePrice equal to price while the product is not on sale.
func applySalePrice(p *model.Product) {
	if !p.OnSale {
		p.SalePrice = p.Price
	}
}

// uploadAll uploads every path or nothing; already uploaded images are removed on failure.
func (s *catalogService) uploadAll(ctx context.Context, paths []string) ([]string, error) {
	if len(paths) > model.MaxProductImages {
		return nil, customErrors.NewInvalidArgument("too many images")
	}

	urls := make([]string, 0, len(paths))
	for _, p := range paths {
		url, err := s.storage.Upload(ctx, p)
		if err != nil {
			s.deleteAll(ctx, urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *catalogService) deleteAll(ctx context.Context, urls []string) {
	for _, u := range urls {
		s.deleteBestEffort(ctx, u)
	}
}

func (s *catalogService) deleteBestEffort(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.storage.Delete(ctx, url); err != nil {
		s.log.Warn("delete image", zap.String("url", url), zap.Error(err))
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
