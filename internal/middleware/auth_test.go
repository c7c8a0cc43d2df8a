package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arieyuval/plates-go/internal/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func authTestHandler(t *testing.T, appToken string) http.Handler {
	t.Helper()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.NewAuthMiddlewareHandler(appToken).AuthCheck()(ok)
}

func TestAuthCheck_GetsPassThrough(t *testing.T) {
	handler := authTestHandler(t, "secret")

	req := httptest.NewRequest("GET", "/workout/exercises", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthCheck_MutationsNeedToken(t *testing.T) {
	handler := authTestHandler(t, "secret")

	req := httptest.NewRequest("POST", "/workout/sets", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest("POST", "/workout/sets", nil)
	req.Header.Set("X-PLATES-TOKEN", "wrong")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest("POST", "/workout/sets", nil)
	req.Header.Set("X-PLATES-TOKEN", "secret")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthCheck_NoTokenConfigured(t *testing.T) {
	handler := authTestHandler(t, "")

	req := httptest.NewRequest("POST", "/workout/sets", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthCheck_NonWorkoutPathsPassThrough(t *testing.T) {
	handler := authTestHandler(t, "secret")

	req := httptest.NewRequest("POST", "/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
