package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/db/postgres"
	myRedis "github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/db/redis"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/account"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/authtest"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/password"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/reset"
	authsvc "github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/service"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/catalog"
	authModel "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/model"
	catalogModel "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/catalog/model"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/infra/config"
	"github.com/alexedwards/argon2id"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fastParams = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type harness struct {
	router  *gin.Engine
	mail    *authtest.Mailbox
	storage *authtest.Storage
	mr      *miniredis.Miniredis
	uploads string
}

type body struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

func newHarness(t *testing.T, opts RouterOptions) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(
		&authModel.User{},
		&authModel.Address{},
		&catalogModel.Category{},
		&catalogModel.Product{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	util, err := jwt.NewJWTUtil(&config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
		Issuer:             "shop-service",
		Audience:           "shop",
	})
	require.NoError(t, err)

	h := &harness{
		mail:    authtest.NewMailbox(),
		storage: &authtest.Storage{},
		mr:      mr,
		uploads: t.TempDir(),
	}

	v := dto.NewValidator()
	log := zap.NewNop()
	hasher := password.NewHasherWithParams("pepper", fastParams)
	users := postgres.NewPostgresUserRepo(db)

	handler := NewHandler(Deps{
		Auth: authsvc.New(users, myRedis.NewRedisTokenRepo(rdb), util, hasher, h.storage, v, log),
		Reset: reset.New(users, myRedis.NewRedisCooldownRepo(rdb, "otp:cooldown:"), h.mail, hasher, v, log,
			reset.Options{
				OTPTTL:        10 * time.Minute,
				MaxAttempts:   5,
				Cooldown:      time.Minute,
				ResetTokenTTL: 15 * time.Minute,
			}),
		Account: account.New(postgres.NewPostgresAddressRepo(db), v),
		Catalog: catalog.New(postgres.NewPostgresCategoryRepo(db), postgres.NewPostgresProductRepo(db), h.storage, v, log),
		Health:  []HealthCheck{DatabaseCheck(db), RedisCheck(rdb)},
		Cookies: CookieOptions{Secure: true},
		Uploads: UploadOptions{Dir: h.uploads, MaxBytes: 1 << 20},
		Log:     log,
	})

	h.router = NewRouter(handler, opts)
	return h
}

type request struct {
	method  string
	path    string
	json    any
	form    *multipartBody
	token   string
	cookies []*nethttp.Cookie
}

func (h *harness) do(t *testing.T, r request) (*httptest.ResponseRecorder, body) {
	t.Helper()

	var rd io.Reader
	contentType := ""
	switch {
	case r.form != nil:
		rd, contentType = r.form.finish(t)
	case r.json != nil:
		raw, err := json.Marshal(r.json)
		require.NoError(t, err)
		rd, contentType = bytes.NewReader(raw), "application/json"
	}

	req := httptest.NewRequest(r.method, r.path, rd)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var b body
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	}
	return rec, b
}

type multipartBody struct {
	buf bytes.Buffer
	w   *multipart.Writer
}

func newMultipart() *multipartBody {
	m := &multipartBody{}
	m.w = multipart.NewWriter(&m.buf)
	return m
}

func (m *multipartBody) field(name, value string) *multipartBody {
	_ = m.w.WriteField(name, value)
	return m
}

func (m *multipartBody) file(field, filename string) *multipartBody {
	fw, _ := m.w.CreateFormFile(field, filename)
	_, _ = fw.Write([]byte("\x89PNG fake image"))
	return m
}

func (m *multipartBody) finish(t *testing.T) (io.Reader, string) {
	require.NoError(t, m.w.Close())
	return &m.buf, m.w.FormDataContentType()
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *nethttp.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (h *harness) signUp(t *testing.T, email, pw string) {
	t.Helper()
	rec, _ := h.do(t, request{method: "POST", path: "/api/v1/users/signUp", json: map[string]string{
		"email": email, "password": pw, "fullName": "Test User",
	}})
	require.Equal(t, nethttp.StatusCreated, rec.Code)
}

func (h *harness) signIn(t *testing.T, email, pw string) dto.AuthResponse {
	t.Helper()
	rec, b := h.do(t, request{method: "POST", path: "/api/v1/users/signIn", json: map[string]string{
		"email": email, "password": pw,
	}})
	require.Equal(t, nethttp.StatusOK, rec.Code, b.Message)

	var out dto.AuthResponse
	require.NoError(t, json.Unmarshal(b.Data, &out))
	return out
}

func requireNoSecrets(t *testing.T, raw []byte) {
	t.Helper()
	s := string(raw)
	for _, field := range []string{"password", "Password", "otp", "Otp", "resetToken", "refreshTokenHash"} {
		require.NotContains(t, s, field)
	}
}

func TestAuth_SessionLifecycle(t *testing.T) {
	h := newHarness(t, RouterOptions{})

	rec, b := h.do(t, request{method: "POST", path: "/api/v1/users/signUp", json: map[string]string{
		"email": "a@x.com", "password": "pw123", "fullName": "A",
	}})
	require.Equal(t, nethttp.StatusCreated, rec.Code)
	require.True(t, b.Success)
	require.Equal(t, nethttp.StatusCreated, b.StatusCode)
	requireNoSecrets(t, b.Data)

	var created dto.UserResponse
	require.NoError(t, json.Unmarshal(b.Data, &created))
	require.Equal(t, "a@x.com", created.Email)
	require.Empty(t, created.Addresses)

	rec, b = h.do(t, request{method: "POST", path: "/api/v1/users/signIn", json: map[string]string{
		"email": "a@x.com", "password": "pw123",
	}})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	access := cookieByName(rec, accessCookie)
	refresh := cookieByName(rec, refreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	require.True(t, access.HttpOnly)
	require.True(t, access.Secure)
	require.Equal(t, nethttp.SameSiteLaxMode, access.SameSite)
	require.Equal(t, nethttp.SameSiteStrictMode, refresh.SameSite)

	var session dto.AuthResponse
	require.NoError(t, json.Unmarshal(b.Data, &session))
	require.Equal(t, access.Value, session.AccessToken)
	require.Equal(t, refresh.Value, session.RefreshToken)
	require.Equal(t, created.ID, session.User.ID)

	rec, b = h.do(t, request{method: "GET", path: "/api/v1/users/me", token: session.AccessToken})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	requireNoSecrets(t, b.Data)

	// rotation through the body
	rec, b = h.do(t, request{method: "POST", path: "/api/v1/users/refreshToken",
		json: map[string]string{"refreshToken": session.RefreshToken}})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var rotated dto.TokensResponse
	require.NoError(t, json.Unmarshal(b.Data, &rotated))
	require.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	rec, b = h.do(t, request{method: "POST", path: "/api/v1/users/refreshToken",
		json: map[string]string{"refreshToken": session.RefreshToken}})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	require.False(t, b.Success)
	require.Equal(t, "invalid token", b.Message)

	// rotation through the cookie
	rec, _ = h.do(t, request{method: "POST", path: "/api/v1/users/refreshToken",
		cookies: []*nethttp.Cookie{{Name: refreshCookie, Value: rotated.RefreshToken}}})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	latestAccess := cookieByName(rec, accessCookie)
	latestRefresh := cookieByName(rec, refreshCookie)
	require.NotNil(t, latestAccess)
	require.NotNil(t, latestRefresh)

	rec, _ = h.do(t, request{method: "POST", path: "/api/v1/users/logout",
		cookies: []*nethttp.Cookie{latestAccess}})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	cleared := cookieByName(rec, accessCookie)
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)

	rec, _ = h.do(t, request{method: "GET", path: "/api/v1/users/me", cookies: []*nethttp.Cookie{latestAccess}})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	rec, _ = h.do(t, request{method: "POST", path: "/api/v1/users/refreshToken",
		json: map[string]string{"refreshToken": latestRefresh.Value}})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func TestAuth_SignUpMultipartAvatar(t *testing.T) {
	h := newHarness(t, RouterOptions{})

	form := newMultipart().
		field("email", "pic@x.com").
		field("password", "pw123").
		field("fullName", "Pic").
		file("avatar", "me.PNG")
	rec, b := h.do(t, request{method: "POST", path: "/api/v1/users/signUp", form: form})
	require.Equal(t, nethttp.StatusCreated, rec.Code, b.Message)

	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(b.Data, &user))
	require.NotNil(t, user.Avatar)
	require.Equal(t, h.storage.Uploaded[0], *user.Avatar)

	left, err := os.ReadDir(h.uploads)
	require.NoError(t, err)
	require.Empty(t, left)
}

func TestAuth_SignUpRejectsUnsupportedFile(t *testing.T) {
	h := newHarness(t, RouterOptions{})

	form := newMultipart().
		field("email", "exe@x.com").
		field("password", "pw123").
		field("fullName", "Exe").
		file("avatar", "run.exe")
	rec, _ := h.do(t, request{method: "POST", path: "/api/v1/users/signUp", form: form})
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	require.Empty(t, h.storage.Uploaded)
}

func TestAuth_SignUpErrors(t *testing.T) {
	h := newHarness(t, RouterOptions{})
	h.signUp(t, "dup@x.com", "pw123")

	rec, b := h.do(t, request{method: "POST", path: "/api/v1/users/signUp", json: map[string]string{
		"email": "DUP@x.com", "password": "pw123", "fullName": "Again",
	}})
	require.Equal(t, nethttp.StatusConflict, rec.Code)
	require.False(t, b.Success)

	rec, _ = h.do(t, request{method: "POST", path: "/api/v1/users/signUp", json: map[string]string{
		"email": "blank@x.com", "password": "pw123", "fullName": "   ",
	}})
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestAuth_SignInUniformFailure(t *testing.T) {
	h := newHarness(t, RouterOptions{})
	h.signUp(t, "u@x.com", "pw123")

	for _, creds := range []map[string]string{
		{"email": "u@x.com", "password": "wrong"},
		{"email": "nobody@x.com", "password": "pw123"},
	} {
		rec, b := h.do(t, request{method: "POST", path: "/api/v1/users/signIn", json: creds})
		require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
		require.Equal(t, "invalid credentials", b.Message)
		require.Nil(t, cookieByName(rec, accessCookie))
	}
}

func TestAuth_ProtectedRoutesNeedToken(t *testing.T) {
	h := newHarness(t, RouterOptions{})

	rec, b := h.do(t, request{method: "GET", path: "/api/v1/users/me"})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", b.Message)

	rec, _ = h.do(t, request{method: "GET", path: "/api/v1/users/me", token: "garbage"})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	rec, _ = h.do(t, request{method: "POST", path: "/api/v1/users/refreshToken"})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func TestAuth_UpdateProfile(t *testing.T) {
	h := newHarness(t, RouterOptions{})
	h.signUp(t, "p@x.com", "pw123")
	s := h.signIn(t, "p@x.com", "pw123")

	rec, b := h.do(t, request{method: "PATCH", path: "/api/v1/users/me", token: s.AccessToken,
		json: map[string]string{"fullName": "Renamed"}})
	require.Equal(t, nethttp.StatusOK, rec.Code, b.Message)
	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(b.Data, &user))
	require.Equal(t, "Renamed", user.FullName)

	rec, b = h.do(t, request{method: "PATCH", path: "/api/v1/users/me", token: s.AccessToken,
		form: newMultipart().file("avatar", "new.jpg")})
	require.Equal(t, nethttp.StatusOK, rec.Code, b.Message)
	require.NoError(t, json.Unmarshal(b.Data, &user))
	require.NotNil(t, user.Avatar)
	require.Equal(t, "Renamed", user.FullName)

	rec, _ = h.do(t, request{method: "PATCH", path: "/api/v1/users/me", token: s.AccessToken,
		json: map[string]string{}})
	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestPasswordReset_Flow(t *testing.T) {
	h := newHarness(t, RouterOptions{})
	h.signUp(t, "r@x.com", "old-pass")

	rec, b := h.do(t, request{method: "POST", path: "/api/v1/users/forgotPassword",
		json: map[string]string{"email": "r@x.com"}})
	require.Equal(t, nethttp.StatusOK, rec.Code, b.Message)
	code := h.mail.Code("r@x.com")
	require.Len(t, code, 6)

	rec, _ = h.do(t, request{method: "POST", path: "/api/v1/users/forgotPassword",
		json: map[string]string{"email": "r@x.com"}})
	require.Equal(t, nethttp.StatusTooManyRequests, rec.Code)

	rec, b = h.do(t, request{method: "POST", path: "/api/v1/users/verifyOtp",
		json: map[string]string{"email": "r@x.com", "otp": code}})
	require.Equal(t, nethttp.StatusOK, rec.Code, b.Message)
	var rt dto.ResetTokenResponse
	require.NoError(t, json.Unmarshal(b.Data, &rt))
	require.NotEmpty(t, rt.ResetToken)

	rec, _ = h.do(t, request{method: "POST", path: "/api/v1/users/verifyOtp",
		json: map[string]string{"email": "r@x.com", "otp": code}})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	rec, _ = h.do(t, request{method: "POST", path: "/api/v1/users/resetPassword",
		json: map[string]string{"resetToken": rt.ResetToken, "newPassword": "new-pass"}})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	h.signIn(t, "r@x.com", "new-pass")
	rec, _ = h.do(t, request{method: "POST", path: "/api/v1/users/signIn",
		json: map[string]string{"email": "r@x.com", "password": "old-pass"}})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func TestPasswordReset_WithoutVerify(t *testing.T) {
	h := newHarness(t, RouterOptions{})
	h.signUp(t, "nv@x.com", "pw123")

	rec, _ := h.do(t, request{method: "POST", path: "/api/v1/users/resetPassword",
		json: map[string]string{"resetToken": "not-issued", "newPassword": "whatever"}})
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	rec, _ = h.do(t, request{method: "POST", path: "/api/v1/users/forgotPassword",
		json: map[string]string{"email": "ghost@x.com"}})
	require.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newHarness(t, RouterOptions{})

	rec, b := h.do(t, request{method: "GET", path: "/health"})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.JSONEq(t, `{"database":"up","redis":"up"}`, string(b.Data))

	h.mr.Close()
	rec, b = h.do(t, request{method: "GET", path: "/health"})
	require.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)
	require.False(t, b.Success)
	require.JSONEq(t, `{"database":"up","redis":"down"}`, string(b.Data))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, RouterOptions{Registry: prometheus.NewRegistry()})

	h.do(t, request{method: "GET", path: "/health"})
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestRateLimitUsesEnvelope(t *testing.T) {
	h := newHarness(t, RouterOptions{RateLimitRPS: 1, RateLimitBurst: 1})

	rec, _ := h.do(t, request{method: "GET", path: "/api/v1/categories"})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec, b := h.do(t, request{method: "GET", path: "/api/v1/categories"})
	require.Equal(t, nethttp.StatusTooManyRequests, rec.Code)
	require.False(t, b.Success)
	require.Equal(t, nethttp.StatusTooManyRequests, b.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, RouterOptions{AllowedOrigins: []string{"https://shop.test"}, AllowCredentials: true})

	req := httptest.NewRequest("OPTIONS", "/api/v1/users/signIn", nil)
	req.Header.Set("Origin", "https://shop.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	require.Equal(t, "https://shop.test", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
