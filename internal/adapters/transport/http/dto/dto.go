package dto

type RegisterDTO struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,notblank"`
	FullName string `json:"fullName" form:"fullName" validate:"required,notblank"`

	// AvatarPath is the saved multipart upload, if any.
	AvatarPath string `json:"-" form:"-"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOtpDTO struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp"   validate:"required,len=6,numeric"`
}

type ResetPasswordDTO struct {
	ResetToken  string `json:"resetToken"  validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,notblank"`
}

type UpdateProfileDTO struct {
	FullName *string `json:"fullName" form:"fullName" validate:"omitempty,notblank"`

	AvatarPath string `json:"-" form:"-"`
}

type AddressDTO struct {
	StreetAddress string `json:"streetAddress" validate:"required,notblank"`
	Town          string `json:"town"          validate:"required,notblank"`
	City          string `json:"city"          validate:"required,notblank"`
	Country       string `json:"country"       validate:"required,notblank"`
	ZipCode       string `json:"zipCode"       validate:"required,notblank"`
	AddressType   string `json:"addressType"   validate:"required,notblank"`
}

type UpdateAddressDTO struct {
	StreetAddress string `json:"streetAddress" validate:"omitempty,notblank"`
	Town          string `json:"town"          validate:"omitempty,notblank"`
	City          string `json:"city"          validate:"omitempty,notblank"`
	Country       string `json:"country"       validate:"omitempty,notblank"`
	ZipCode       string `json:"zipCode"       validate:"omitempty,notblank"`
	AddressType   string `json:"addressType"   validate:"omitempty,notblank"`
}

type CategoryDTO struct {
	Name string `json:"name" form:"name" validate:"required,notblank"`

	AvatarPath string `json:"-" form:"-"`
}

type UpdateCategoryDTO struct {
	Name *string `json:"name" form:"name" validate:"omitempty,notblank"`

	AvatarPath string `json:"-" form:"-"`
}

type ProductDTO struct {
	Name             string  `form:"name"             validate:"required,notblank"`
	Description      string  `form:"description"      validate:"required,notblank"`
	ShortDescription string  `form:"shortDescription" validate:"required,notblank"`
	Category         string  `form:"category"         validate:"required,notblank"`
	Price            float64 `form:"price"            validate:"gte=0"`
	SalePrice        float64 `form:"salePrice"        validate:"gte=0"`
	OnSale           bool    `form:"onSale"`
	StockQuantity    int     `form:"stockQuantity"    validate:"gte=0"`
	ShippingRequired bool    `form:"shippingRequired"`
	Length           float64 `form:"length"           validate:"gte=0"`
	Width            float64 `form:"width"            validate:"gte=0"`
	Height           float64 `form:"height"           validate:"gte=0"`
	Weight           float64 `form:"weight"           validate:"gte=0"`

	ImagePaths []string `form:"-" validate:"max=3"`
}

type UpdateProductDTO struct {
	Name             *string  `form:"name"             validate:"omitempty,notblank"`
	Description      *string  `form:"description"      validate:"omitempty,notblank"`
	ShortDescription *string  `form:"shortDescription" validate:"omitempty,notblank"`
	Category         *string  `form:"category"         validate:"omitempty,notblank"`
	Price            *float64 `form:"price"            validate:"omitempty,gte=0"`
	SalePrice        *float64 `form:"salePrice"        validate:"omitempty,gte=0"`
	OnSale           *bool    `form:"onSale"`
	StockQuantity    *int     `form:"stockQuantity"    validate:"omitempty,gte=0"`
	ShippingRequired *bool    `form:"shippingRequired"`
	Length           *float64 `form:"length"           validate:"omitempty,gte=0"`
	Width            *float64 `form:"width"            validate:"omitempty,gte=0"`
	Height           *float64 `form:"height"           validate:"omitempty,gte=0"`
	Weight           *float64 `form:"weight"           validate:"omitempty,gte=0"`

	ImagePaths []string `form:"-" validate:"max=3"`
}
