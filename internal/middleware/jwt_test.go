package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cryofleet/internal/models"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("user_id"), "role": c.MustGet("role")})
	})
	r.GET("/admin", RequireAuthWithRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	if w := get(authRouter(), "/me", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthPassesClaims(t *testing.T) {
	token, err := GenerateToken(7, models.RoleOperator)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	w := get(authRouter(), "/me", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, models.RoleOperator) || !strings.Contains(body, "7") {
		t.Errorf("claims not passed through: %s", body)
	}
}

func TestRequireAuthRejectsUnknownRole(t *testing.T) {
	token, err := GenerateToken(7, "SUPERVISOR")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if w := get(authRouter(), "/me", token); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for role outside the vocabulary", w.Code)
	}
}

func TestRequireAuthWithRole(t *testing.T) {
	r := authRouter()

	operator, err := GenerateToken(7, models.RoleOperator)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if w := get(r, "/admin", operator); w.Code != http.StatusForbidden {
		t.Errorf("operator on admin route: status = %d, want 403", w.Code)
	}

	admin, err := GenerateToken(1, models.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if w := get(r, "/admin", admin); w.Code != http.StatusNoContent {
		t.Errorf("admin on admin route: status = %d, want 204", w.Code)
	}
}
