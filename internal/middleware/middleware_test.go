package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/utils"
	"pickupapp/pkg/logger"
)

type staticAuthenticator map[string]*models.Principal

func (a staticAuthenticator) Authenticate(token string) (*models.Principal, error) {
	if p, ok := a[token]; ok {
		return p, nil
	}
	return nil, errors.New("unknown token")
}

func newEngine(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestIDMiddleware(), RecoveryMiddleware(logger.NewNopLogger()))

	whoami := func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, string(p.Kind))
	}

	engine.GET("/open", OptionalAuth(auth), whoami)
	engine.GET("/any", AuthRequired(auth), whoami)
	engine.GET("/user", AuthRequired(auth), UserRequired(), whoami)
	engine.GET("/driver", AuthRequired(auth), DriverRequired(), whoami)
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })
	return engine
}

func do(engine *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	if body.Error == nil {
		t.Fatalf("no error in body %q", rec.Body.String())
	}
	return body.Error.Code
}

func TestAuthGuards(t *testing.T) {
	auth := staticAuthenticator{
		"u": {ID: primitive.NewObjectID(), Kind: models.PrincipalUser},
		"d": {ID: primitive.NewObjectID(), Kind: models.PrincipalDriver},
	}
	engine := newEngine(auth)

	tests := []struct {
		name, path, token string
		status            int
		body              string
	}{
		{"missing token", "/any", "", http.StatusUnauthorized, ""},
		{"bad token", "/any", "nope", http.StatusUnauthorized, ""},
		{"user on any", "/any", "u", http.StatusOK, "user"},
		{"driver on user route", "/user", "d", http.StatusForbidden, ""},
		{"user on driver route", "/driver", "u", http.StatusForbidden, ""},
		{"driver on driver route", "/driver", "d", http.StatusOK, "driver"},
		{"optional without token", "/open", "", http.StatusOK, "anonymous"},
		{"optional with bad token", "/open", "nope", http.StatusOK, "anonymous"},
		{"optional with token", "/open", "d", http.StatusOK, "driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(engine, tt.path, tt.token)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tt.body)
			}
			switch tt.status {
			case http.StatusUnauthorized:
				if code := errorCode(t, rec); code != "UNAUTHORIZED" {
					t.Fatalf("code = %s", code)
				}
			case http.StatusForbidden:
				if code := errorCode(t, rec); code != "FORBIDDEN" {
					t.Fatalf("code = %s", code)
				}
			}
		})
	}
}

func TestBearerTokenParsing(t *testing.T) {
	engine := newEngine(staticAuthenticator{})

	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	engine := newEngine(staticAuthenticator{})

	rec := do(engine, "/open", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("no request id generated")
	}

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
}

func TestRecoveryReturnsInternalError(t *testing.T) {
	engine := newEngine(staticAuthenticator{})

	rec := do(engine, "/panic", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "INTERNAL_ERROR" {
		t.Fatalf("code = %s", code)
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORSMiddleware([]string{"https://app.example.com"}))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow origin = %q", got)
	}
}
