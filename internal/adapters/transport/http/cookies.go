package http

import (
	nethttp "net/http"
	"strings"
	"time"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

type CookieOptions struct {
	Domain string
	Secure bool
}

func (h *Handler) setTokenCookies(c *gin.Context, pair model.TokenPair) {
	h.setCookie(c, accessCookie, pair.AccessToken, pair.AccessTTL, nethttp.SameSiteLaxMode)
	h.setCookie(c, refreshCookie, pair.RefreshToken, pair.RefreshTTL, nethttp.SameSiteStrictMode)
}

func (h *Handler) clearTokenCookies(c *gin.Context) {
	h.setCookie(c, accessCookie, "", -time.Second, nethttp.SameSiteLaxMode)
	h.setCookie(c, refreshCookie, "", -time.Second, nethttp.SameSiteStrictMode)
}

func (h *Handler) setCookie(c *gin.Context, name, value string, ttl time.Duration, site nethttp.SameSite) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	nethttp.SetCookie(c.Writer, &nethttp.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   maxAge,
		Secure:   h.cookies.Secure,
		HttpOnly: true,
		SameSite: site,
	})
}

// accessToken reads the cookie first, then a bearer header.
func accessToken(c *gin.Context) string {
	if v, err := c.Cookie(accessCookie); err == nil && v != "" {
		return v
	}
	auth := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
