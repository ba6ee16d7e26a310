package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brewhouse/activity"
	"brewhouse/globals"
	"brewhouse/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := middleware.Claims{
		UserID: "u1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestActivityStreamRequiresToken(t *testing.T) {
	router := httprouter.New()
	AddActivityRoutes(router, activity.NewHub())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/activity/stream", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous stream request got %d, want 401", rr.Code)
	}
}

func TestActivityStreamRejectsNonAdmin(t *testing.T) {
	router := httprouter.New()
	AddActivityRoutes(router, activity.NewHub())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/activity/stream", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-admin stream request got %d, want 403", rr.Code)
	}
}
