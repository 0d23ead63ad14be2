package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func setupProtectedRouter(t *testing.T, tokens *TokenService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/protected", RequireAuth(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  UserIDFromContext(c),
			"username": UsernameFromContext(c),
		})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	tokens := NewTokenService(testSecret, 15*time.Minute)
	r := setupProtectedRouter(t, tokens)

	token, err := tokens.Issue(7, "bob")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	tokens := NewTokenService(testSecret, 15*time.Minute).WithClock(func() time.Time { return clock })
	r := setupProtectedRouter(t, tokens)

	token, err := tokens.Issue(7, "bob")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	clock = issued.Add(16 * time.Minute)
	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
