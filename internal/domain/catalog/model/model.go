package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxProductImages is the number of images a product can carry.
const MaxProductImages = 3

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Slug      string    `gorm:"uniqueIndex;not null"`
	Avatar    string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Dimensions struct {
	Length float64
	Width  float64
	Height float64
	Weight float64
}

type Product struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name             string     `gorm:"not null"`
	Description      string     `gorm:"not null"`
	ShortDescription string     `gorm:"not null"`
	CategoryID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	Category         Category   `gorm:"foreignKey:CategoryID"`
	Images           []string   `gorm:"serializer:json"`
	Dimensions       Dimensions `gorm:"embedded;embeddedPrefix:dim_"`
	Price            float64
	SalePrice        float64
	OnSale           bool
	StockQuantity    int
	TotalSales       int
	ShippingRequired bool
	AverageRating    float64
	RatingCount      int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// ProductUpdate is a partial product change; nil fields are left untouched.
type ProductUpdate struct {
	Name             *string
	Description      *string
	ShortDescription *string
	CategoryID       *uuid.UUID
	Images           []string
	Dimensions       *Dimensions
	Price            *float64
	SalePrice        *float64
	OnSale           *bool
	StockQuantity    *int
	ShippingRequired *bool
	AverageRating    *float64
	RatingCount      *int
}
