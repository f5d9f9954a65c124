package model

import (
	"github.com/google/uuid"
	"time"
)

// MaxAddresses caps the address book of a single user.
const MaxAddresses = 5

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	FullName     string    `gorm:"not null"`
	Avatar       *string

	RefreshTokenHash *string `gorm:"column:refresh_token_hash"`

	OTPHash      *string    `gorm:"column:otp_hash"`
	OTPExpiresAt *time.Time `gorm:"column:otp_expires_at"`
	OTPAttempts  int        `gorm:"column:otp_attempts;not null;default:0"`

	ResetTokenHash      *string    `gorm:"column:reset_token_hash;uniqueIndex"`
	ResetTokenExpiresAt *time.Time `gorm:"column:reset_token_expires_at"`

	AddressCount int       `gorm:"not null;default:0"`
	Addresses    []Address `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Address struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	StreetAddress string    `gorm:"not null"`
	Town          string    `gorm:"not null"`
	City          string    `gorm:"not null"`
	Country       string    `gorm:"not null"`
	ZipCode       string    `gorm:"not null"`
	AddressType   string    `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileUpdate carries the user-editable fields; nil means unchanged.
type ProfileUpdate struct {
	FullName *string
	Avatar   *string
}

// AddressUpdate is a partial address change; empty strings are ignored.
type AddressUpdate struct {
	StreetAddress string
	Town          string
	City          string
	Country       string
	ZipCode       string
	AddressType   string
}

func (u AddressUpdate) IsEmpty() bool {
	return u.StreetAddress == "" && u.Town == "" && u.City == "" &&
		u.Country == "" && u.ZipCode == "" && u.AddressType == ""
}

type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	UserID          uuid.UUID
	RefreshTokenJTI string
}

// Session is the result of a successful login.
type Session struct {
	Tokens TokenPair
	User   User
}
