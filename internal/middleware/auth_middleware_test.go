package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"homeclean_backend/internal/services"
	"homeclean_backend/internal/session"
)

type stubAuth struct {
	services.AuthService
	sess *session.Session
	err  error
}

func (s stubAuth) Authenticate(context.Context, string) (*session.Session, error) {
	return s.sess, s.err
}

func newRouter(auth services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", SessionAuth(auth), func(c *gin.Context) {
		sess, _ := session.Current(c)
		c.String(http.StatusOK, sess.AdminID)
	})
	return r
}

func TestSessionAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		auth   stubAuth
		status int
	}{
		{"missing header", "", stubAuth{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", stubAuth{}, http.StatusUnauthorized},
		{"revoked", "Bearer tok", stubAuth{err: services.ErrInvalidSession}, http.StatusUnauthorized},
		{"store down", "Bearer tok", stubAuth{err: errors.New("redis down")}, http.StatusInternalServerError},
		{"valid", "Bearer tok", stubAuth{sess: &session.Session{AdminID: "a-1"}}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newRouter(tt.auth).ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "a-1", w.Body.String())
			}
		})
	}
}
