package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newAuthedRouter(header, key string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIKeyMiddleware(header, key))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func doRequest(r *gin.Engine, header, value string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if value != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAPIKeyMiddleware(t *testing.T) {
	r := newAuthedRouter("", "secret")

	if code := doRequest(r, DefaultHeader, "secret"); code != http.StatusOK {
		t.Errorf("valid key: status = %d, want 200", code)
	}
	if code := doRequest(r, DefaultHeader, ""); code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want 401", code)
	}
	if code := doRequest(r, DefaultHeader, "wrong"); code != http.StatusForbidden {
		t.Errorf("wrong key: status = %d, want 403", code)
	}
}

func TestAPIKeyMiddlewareCustomHeader(t *testing.T) {
	r := newAuthedRouter("X-Lookout-Key", "secret")

	if code := doRequest(r, "X-Lookout-Key", "secret"); code != http.StatusOK {
		t.Errorf("custom header: status = %d, want 200", code)
	}
	// The default header is not consulted once another one is configured.
	if code := doRequest(r, DefaultHeader, "secret"); code != http.StatusUnauthorized {
		t.Errorf("default header with custom config: status = %d, want 401", code)
	}
}

func TestAPIKeyMiddlewareDisabled(t *testing.T) {
	r := newAuthedRouter("", "")
	if code := doRequest(r, DefaultHeader, ""); code != http.StatusOK {
		t.Errorf("empty key should disable auth: status = %d, want 200", code)
	}
}
