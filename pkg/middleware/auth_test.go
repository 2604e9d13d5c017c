package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validStub(claims *Claims) TokenValidator {
	return func(token string) (*Claims, error) {
		if token == "good-token" {
			return claims, nil
		}
		return nil, errors.New("bad token")
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	handler := Auth(validStub(nil))(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	handler := Auth(validStub(nil))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := Auth(validStub(nil))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InjectsClaims(t *testing.T) {
	claims := &Claims{UserID: "user-1", Role: "admin"}
	handler := Auth(validStub(claims))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user-1", UserIDFromContext(r.Context()))
		assert.Equal(t, "admin", RoleFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	claims := &Claims{UserID: "user-1", Role: "customer"}
	handler := Auth(validStub(claims))(RequireRole("admin")(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_Allowed(t *testing.T) {
	claims := &Claims{UserID: "user-1", Role: "admin"}
	handler := Auth(validStub(claims))(RequireRole("admin")(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
