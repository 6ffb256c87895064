package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateServerOriginPolicy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := CreateServer([]string{"https://app.example.com"})
	r.GET("/probe", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	tests := []struct {
		name     string
		origin   string
		wantCode int
	}{
		{"allowed origin", "https://app.example.com", http.StatusOK},
		{"no origin header", "", http.StatusOK},
		{"foreign origin", "https://evil.example.com", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHealthBypassesOriginPolicy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := CreateServer([]string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := CreateServer([]string{"https://app.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", rec.Body.String())
}
