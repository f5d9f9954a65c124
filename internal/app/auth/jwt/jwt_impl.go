package jwt

import (
	"errors"
	"slices"
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	jwt2 "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JwtUtilImpl signs access and refresh tokens with separate HMAC secrets so a
// token of one kind never validates as the other.
type JwtUtilImpl struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	audience      string
	now           func() time.Time
}

func NewJWTUtil(cfg *config.Config) (*JwtUtilImpl, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, customErrors.WrapInternal(errors.New("empty secret"), "NewJWTUtil")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, customErrors.WrapInternal(errors.New("access and refresh secrets must differ"), "NewJWTUtil")
	}

	return &JwtUtilImpl{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		now:           time.Now,
	}, nil
}

func (j *JwtUtilImpl) registered(userID uuid.UUID, ttl time.Duration) jwt.RegisteredClaims {
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    j.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
	if j.audience != "" {
		claims.Audience = jwt.ClaimStrings{j.audience}
	}
	return claims
}

func (j *JwtUtilImpl) GenerateAccessToken(userID uuid.UUID) (token string, exp time.Time, jti string, err error) {
	claims := jwt2.AccessClaims{RegisteredClaims: j.registered(userID, j.accessTTL)}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.accessSecret)
	if err != nil {
		return "", time.Time{}, "", customErrors.WrapInternal(err, "sign access token")
	}

	return signed, claims.ExpiresAt.Time, claims.ID, nil
}

func (j *JwtUtilImpl) GenerateRefreshToken(userID uuid.UUID) (token string, exp time.Time, jti string, err error) {
	claims := jwt2.RefreshClaims{RegisteredClaims: j.registered(userID, j.refreshTTL)}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.refreshSecret)
	if err != nil {
		return "", time.Time{}, "", customErrors.WrapInternal(err, "sign refresh token")
	}

	return signed, claims.ExpiresAt.Time, claims.ID, nil
}

func (j *JwtUtilImpl) ValidateAccessToken(raw string) (jwt2.AccessClaims, error) {
	var claims jwt2.AccessClaims
	if err := j.parse(raw, &claims, j.accessSecret); err != nil {
		return jwt2.AccessClaims{}, err
	}
	if err := j.checkRegistered(claims.RegisteredClaims); err != nil {
		return jwt2.AccessClaims{}, err
	}
	return claims, nil
}

func (j *JwtUtilImpl) ValidateRefreshToken(raw string) (jwt2.RefreshClaims, error) {
	var claims jwt2.RefreshClaims
	if err := j.parse(raw, &claims, j.refreshSecret); err != nil {
		return jwt2.RefreshClaims{}, err
	}
	if err := j.checkRegistered(claims.RegisteredClaims); err != nil {
		return jwt2.RefreshClaims{}, err
	}
	return claims, nil
}

func (j *JwtUtilImpl) parse(raw string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithIssuedAt(), jwt.WithExpirationRequired(), jwt.WithTimeFunc(j.now))

	if err != nil || !token.Valid {
		return customErrors.ErrInvalidToken
	}
	return nil
}

func (j *JwtUtilImpl) checkRegistered(c jwt.RegisteredClaims) error {
	if j.issuer != "" && c.Issuer != j.issuer {
		return customErrors.ErrInvalidToken
	}
	if j.audience != "" && !slices.Contains(c.Audience, j.audience) {
		return customErrors.ErrInvalidToken
	}
	if _, err := uuid.Parse(c.Subject); err != nil {
		return customErrors.ErrInvalidToken
	}
	return nil
}

// UserID extracts the subject of validated claims.
func UserID(c jwt.RegisteredClaims) uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}
