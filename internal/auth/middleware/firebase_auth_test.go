package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(_ context.Context, token string) (*auth.Token, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &auth.Token{UID: "fb-1", Claims: map[string]interface{}{"email": "a@example.com"}}, nil
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(FirebaseAuthMiddleware(fakeVerifier{}))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString("firebase_uid"), "email": c.GetString("email")})
	})

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"anonymous passes through", "", http.StatusOK, `{"uid":"","email":""}`},
		{"valid token", "Bearer good", http.StatusOK, `{"uid":"fb-1","email":"a@example.com"}`},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, `{"error":"invalid token"}`},
		{"not a bearer header", "Basic abc", http.StatusOK, `{"uid":"","email":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
