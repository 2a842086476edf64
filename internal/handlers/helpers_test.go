package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aidosk/shopapi/internal/models"
	"github.com/aidosk/shopapi/internal/mykafka"
	"github.com/aidosk/shopapi/internal/service"
	"github.com/aidosk/shopapi/internal/tokens"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Signer   *tokens.Signer
	Auth     *AuthHandler
	Orders   *OrderHandler
	Products *ProductHandler
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)

	signer, err := tokens.NewSigner([]byte("test_secret"), "HS256")
	require.NoError(t, err)

	userSvc := &service.UserService{DB: db, Signer: signer, AccessTTL: time.Hour}
	orderSvc := &service.OrderService{DB: db}
	producer := &mykafka.Producer{}

	return &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Signer:   signer,
		Auth:     &AuthHandler{Users: userSvc, Producer: producer},
		Orders:   &OrderHandler{Orders: orderSvc, Producer: producer},
		Products: &ProductHandler{DB: db, Producer: producer},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) doFormRequest(method, path string, form url.Values) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createUser(email string) *models.User {
	payload := map[string]string{
		"first_name": "test",
		"last_name":  "user",
		"email":      email,
		"password":   "password",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/login/create-user", payload)
	require.NoError(env.T, env.Auth.CreateUser(c))
	require.Equal(env.T, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(env.T, env.DB.Where("email = ?", email).First(&user).Error)
	return &user
}

func (env *testEnv) createProduct(name string, price int64) *models.Product {
	product := models.Product{Name: name, Price: price}
	require.NoError(env.T, env.DB.Create(&product).Error)
	return &product
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
	return he
}
