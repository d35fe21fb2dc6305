package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/auth"
)

func authedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth())
	return r
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router := authedRouter()
	router.OPTIONS("/api/v1/documents", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, "/api/v1/documents", nil))

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthRejectsBadCredentials(t *testing.T) {
	router := authedRouter()
	router.GET("/api/v1/documents", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for name, header := range map[string]string{
		"no header":    "",
		"wrong scheme": "Token abc",
		"blank token":  "Bearer   ",
		"garbage":      "Bearer not-a-jwt",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, resp.Code)
		}
	}
}

func TestAuthSkipsPublicPaths(t *testing.T) {
	router := authedRouter()
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/auth/login"},
		{http.MethodGet, "/api/v1/health"},
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(tc.method, tc.path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s %s: expected 200, got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestAuthStoresPrincipal(t *testing.T) {
	token, err := auth.GenerateToken("user-9", "drkhan", "doctor")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	router := authedRouter()
	router.GET("/api/v1/documents", func(c *gin.Context) {
		p := PrincipalFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "username": p.Username, "role": p.Role})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	body := resp.Body.String()
	for _, want := range []string{"user-9", "drkhan", "doctor"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in response, got %s", want, body)
		}
	}
}
