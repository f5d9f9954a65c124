package dto

import (
	"time"

	authModel "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	catalogModel "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/catalog/model"
	"github.com/google/uuid"
)

type AddressResponse struct {
	ID            uuid.UUID `json:"id"`
	StreetAddress string    `json:"streetAddress"`
	Town          string    `json:"town"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	ZipCode       string    `json:"zipCode"`
	AddressType   string    `json:"addressType"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UserResponse is the only shape a user leaves the service in. Password, OTP and
// token fields have no counterpart here.
type UserResponse struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	FullName  string            `json:"fullName"`
	Avatar    *string           `json:"avatar"`
	Addresses []AddressResponse `json:"addresses"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type ResetTokenResponse struct {
	ResetToken string `json:"resetToken"`
}

type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

type DimensionsResponse struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

type ProductResponse struct {
	ID               uuid.UUID          `json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	ShortDescription string             `json:"shortDescription"`
	Category         CategoryResponse   `json:"category"`
	Images           []string           `json:"images"`
	Dimensions       DimensionsResponse `json:"dimensions"`
	Price            float64            `json:"price"`
	SalePrice        float64            `json:"salePrice"`
	OnSale           bool               `json:"onSale"`
	StockQuantity    int                `json:"stockQuantity"`
	InStock          bool               `json:"inStock"`
	TotalSales       int                `json:"totalSales"`
	ShippingRequired bool               `json:"shippingRequired"`
	AverageRating    float64            `json:"averageRating"`
	RatingCount      int                `json:"ratingCount"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

func NewAddressResponse(a authModel.Address) AddressResponse {
	return AddressResponse{
		ID:            a.ID,
		StreetAddress: a.StreetAddress,
		Town:          a.Town,
		City:          a.City,
		Country:       a.Country,
		ZipCode:       a.ZipCode,
		AddressType:   a.AddressType,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func NewAddressListResponse(list []authModel.Address) []AddressResponse {
	out := make([]AddressResponse, 0, len(list))
	for _, a := range list {
		out = append(out, NewAddressResponse(a))
	}
	return out
}

func NewUserResponse(u authModel.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Avatar:    u.Avatar,
		Addresses: NewAddressListResponse(u.Addresses),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewCategoryResponse(c catalogModel.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Slug:      c.Slug,
		Name:      c.Name,
		Avatar:    c.Avatar,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewCategoryListResponse(list []catalogModel.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, NewCategoryResponse(c))
	}
	return out
}

func NewProductResponse(p catalogModel.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Category: CategoryResponse{
			ID:     p.Category.ID,
			Slug:   p.Category.Slug,
			Name:   p.Category.Name,
			Avatar: p.Category.Avatar,
		},
		Images: images,
		Dimensions: DimensionsResponse{
			Length: p.Dimensions.Length,
			Width:  p.Dimensions.Width,
			Height: p.Dimensions.Height,
			Weight: p.Dimensions.Weight,
		},
		Price:            p.Price,
		SalePrice:        p.SalePrice,
		OnSale:           p.OnSale,
		StockQuantity:    p.StockQuantity,
		InStock:          p.InStock(),
		TotalSales:       p.TotalSales,
		ShippingRequired: p.ShippingRequired,
		AverageRating:    p.AverageRating,
		RatingCount:      p.RatingCount,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func NewProductListResponse(list []catalogModel.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, NewProductResponse(p))
	}
	return out
}
