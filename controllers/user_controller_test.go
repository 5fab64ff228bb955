// controllers/user_controller_test.go
package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ihexyousex/mangalore-properties-sub000/middleware"
)

type testValidator struct {
	validate *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validate.Struct(i)
}

// newCompareEnv serves the compare-shortlist route with a bearer token for a
// fresh user. The repositories stay unset: these tests cover the request
// checks that run before any storage access.
func newCompareEnv(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := middleware.GenerateJWT(primitive.NewObjectID().Hex(), "asha@example.com", "user")
	require.NoError(t, err)

	uc := &UserController{}
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	e.PUT("/api/user/compare", uc.SaveCompareList)
	return e, token
}

func putCompare(t *testing.T, e *echo.Echo, token string, body interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPut, "/api/user/compare", &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestSaveCompareListRequiresAuth(t *testing.T) {
	e, _ := newCompareEnv(t)
	code := putCompare(t, e, "", map[string]interface{}{"ids": []string{}})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSaveCompareListRejectsInvalidListingID(t *testing.T) {
	e, token := newCompareEnv(t)
	code := putCompare(t, e, token, map[string]interface{}{"ids": []string{"not-an-id"}})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSaveCompareListRejectsOversizedShortlist(t *testing.T) {
	e, token := newCompareEnv(t)

	ids := make([]string, 5)
	for i := range ids {
		ids[i] = primitive.NewObjectID().Hex()
	}
	code := putCompare(t, e, token, map[string]interface{}{"ids": ids})
	assert.Equal(t, http.StatusBadRequest, code)
}
