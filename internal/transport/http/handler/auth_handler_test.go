package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-api/internal/core/auth"
	"inventory-api/internal/service"
	mdw "inventory-api/internal/transport/http/middleware"
)

type testAPI struct {
	engine   *gin.Engine
	jwter    *auth.JWTer
	users    *fakeUserRepo
	products *fakeProductRepo
}

func newTestAPI() *testAPI {
	gin.SetMode(gin.TestMode)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	users := newFakeUserRepo()
	products := newFakeProductRepo()

	authSvc := service.NewAuthService(users, jwter, zap.NewNop())
	productSvc := service.NewProductService(products, nil, zap.NewNop())
	authH := NewAuthHandler(authSvc, false)
	productH := NewProductHandler(productSvc, false)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)

	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter, ""))
	authed.GET("/auth/me", authH.Me)
	authed.POST("/auth/refresh", authH.Refresh)
	authed.PUT("/auth/password", authH.ChangePassword)

	p := authed.Group("/products")
	p.POST("", productH.Create)
	p.GET("", productH.Search)
	p.GET("/low-stock", productH.LowStock)
	p.GET("/stats", productH.Stats)
	p.GET("/:id", productH.Get)
	p.PUT("/:id", productH.Update)
	p.DELETE("/:id", productH.Delete)
	p.PATCH("/:id/stock", productH.UpdateStock)
	p.PATCH("/:id/stock/adjust", productH.AdjustStock)

	return &testAPI{engine: r, jwter: jwter, users: users, products: products}
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuthFlow_RegisterThenLogin(t *testing.T) {
	api := newTestAPI()

	w := api.do(http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"a@x.com","password":"secret123","firstName":"Ada","lastName":"L"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	body := envelope(t, w)
	assert.Equal(t, true, body["success"])

	// 正确口令 → 200 且 token 可验
	w = api.do(http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"a@x.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope(t, w)["data"].(map[string]any)
	tok := data["token"].(string)
	claims, err := api.jwter.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)

	// 错误口令 → 401，信息与未知邮箱一致
	w = api.do(http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"a@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPw := envelope(t, w)["message"]

	w = api.do(http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"nobody@x.com","password":"whatever"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPw, envelope(t, w)["message"])
}

func TestAuthFlow_DuplicateEmail(t *testing.T) {
	api := newTestAPI()
	reqBody := `{"email":"a@x.com","password":"secret123","firstName":"Ada","lastName":"L"}`

	w := api.do(http.MethodPost, "/api/v1/auth/register", "", reqBody)
	require.Equal(t, http.StatusCreated, w.Code)

	// 大小写不同也算重复
	w = api.do(http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"A@X.com","password":"secret123","firstName":"Ada","lastName":"L"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthFlow_ValidationErrors(t *testing.T) {
	api := newTestAPI()
	w := api.do(http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"not-an-email","password":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := envelope(t, w)
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, errs)
}

func TestAuthFlow_MeAndRefresh(t *testing.T) {
	api := newTestAPI()
	api.do(http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"a@x.com","password":"secret123","firstName":"Ada","lastName":"L"}`)
	w := api.do(http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"a@x.com","password":"secret123"}`)
	tok := envelope(t, w)["data"].(map[string]any)["token"].(string)

	w = api.do(http.MethodGet, "/api/v1/auth/me", tok, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/api/v1/auth/refresh", tok, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// 停用后 me → 404，refresh → 401
	for _, u := range api.users.users {
		u.Active = false
	}
	w = api.do(http.MethodGet, "/api/v1/auth/me", tok, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(http.MethodPost, "/api/v1/auth/refresh", tok, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
