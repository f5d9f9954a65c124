package http

import (
	nethttp "net/http"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/account"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/reset"
	authsvc "github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/service"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/catalog"
	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/jwt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const claimsKey = "claims"

type Handler struct {
	auth    authsvc.Service
	reset   reset.Service
	account account.Service
	catalog catalog.Service
	health  []HealthCheck
	cookies CookieOptions
	uploads UploadOptions
	log     *zap.Logger
}

type Deps struct {
	Auth    authsvc.Service
	Reset   reset.Service
	Account account.Service
	Catalog catalog.Service
	Health  []HealthCheck
	Cookies CookieOptions
	Uploads UploadOptions
	Log     *zap.Logger
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		auth:    d.Auth,
		reset:   d.Reset,
		account: d.Account,
		catalog: d.Catalog,
		health:  d.Health,
		cookies: d.Cookies,
		uploads: d.Uploads,
		log:     d.Log,
	}
}

// RequireAuth rejects requests without a live access token and stores its claims.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := h.auth.Authenticate(c.Request.Context(), accessToken(c))
		if err != nil {
			handleError(c, err)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func currentClaims(c *gin.Context) jwt.AccessClaims {
	claims, _ := c.MustGet(claimsKey).(jwt.AccessClaims)
	return claims
}

func currentUser(c *gin.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(currentClaims(c).Subject)
	if err != nil {
		return uuid.Nil, customErrors.ErrInvalidToken
	}
	return uid, nil
}

func pathID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, customErrors.NewInvalidArgument("invalid id")
	}
	return id, nil
}

func (h *Handler) Register(c *gin.Context) {
	var in dto.RegisterDTO
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, err)
		return
	}
	avatar, err := h.saveUpload(c, "avatar")
	if err != nil {
		handleError(c, err)
		return
	}
	defer removeFiles(avatar)
	in.AvatarPath = avatar

	user, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusCreated, dto.NewUserResponse(user), "user registered")
}

func (h *Handler) Login(c *gin.Context) {
	var in dto.LoginDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.auth.Login(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}

	h.setTokenCookies(c, session.Tokens)
	respond(c, nethttp.StatusOK, dto.AuthResponse{
		AccessToken:  session.Tokens.AccessToken,
		RefreshToken: session.Tokens.RefreshToken,
		User:         dto.NewUserResponse(session.User),
	}, "logged in")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), currentClaims(c)); err != nil {
		handleError(c, err)
		return
	}
	h.clearTokenCookies(c)
	respond(c, nethttp.StatusOK, nil, "logged out")
}

func (h *Handler) Refresh(c *gin.Context) {
	var in dto.RefreshDTO
	if v, err := c.Cookie(refreshCookie); err == nil && v != "" {
		in.RefreshToken = v
	} else if err := c.ShouldBindJSON(&in); err != nil {
		handleError(c, customErrors.ErrUnauthorized)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), in)
	if err != nil {
		if customErrors.IsInvalidToken(err) {
			h.clearTokenCookies(c)
		}
		handleError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	respond(c, nethttp.StatusOK, dto.TokensResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "tokens refreshed")
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var in dto.ForgotPasswordDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.reset.ForgotPassword(c.Request.Context(), in); err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, nil, "otp sent")
}

func (h *Handler) VerifyOtp(c *gin.Context) {
	var in dto.VerifyOtpDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	token, err := h.reset.VerifyOTP(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.ResetTokenResponse{ResetToken: token}, "otp verified")
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var in dto.ResetPasswordDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.reset.ResetPassword(c.Request.Context(), in); err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, nil, "password reset")
}

func (h *Handler) Me(c *gin.Context) {
	uid, err := currentUser(c)
	if err != nil {
		handleError(c, err)
		return
	}
	user, err := h.auth.Me(c.Request.Context(), uid)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.NewUserResponse(user), "")
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, err := currentUser(c)
	if err != nil {
		handleError(c, err)
		return
	}

	var in dto.UpdateProfileDTO
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, err)
		return
	}
	avatar, err := h.saveUpload(c, "avatar")
	if err != nil {
		handleError(c, err)
		return
	}
	defer removeFiles(avatar)
	in.AvatarPath = avatar

	user, err := h.auth.UpdateProfile(c.Request.Context(), uid, in)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, nethttp.StatusOK, dto.NewUserResponse(user), "profile updated")
}
